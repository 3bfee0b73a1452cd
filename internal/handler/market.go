package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tickclear/tickclear/internal/domain"
	"github.com/tickclear/tickclear/internal/engine"
	"github.com/tickclear/tickclear/internal/service"
)

// MarketHandler exposes market administration and read-only inspection.
// Order entry is deliberately absent: the clearing engine is an in-process
// library and orders reach it through its Go API, not over the network.
type MarketHandler struct {
	markets *service.MarketService
}

// NewMarketHandler creates a MarketHandler.
func NewMarketHandler(markets *service.MarketService) *MarketHandler {
	return &MarketHandler{markets: markets}
}

// registerRequest is the POST /markets request body.
type registerRequest struct {
	ID            string `json:"id"`
	IDHash        uint64 `json:"id_hash,omitempty"`
	Kind          string `json:"kind"`
	BaseAsset     uint64 `json:"base_asset"`
	QuoteAsset    uint64 `json:"quote_asset"`
	PriceScale    int64  `json:"price_scale"`
	FixedPrice    int64  `json:"fixed_price,omitempty"`
	ClearInterval int64  `json:"clear_interval,omitempty"`
	MaxMatches    int    `json:"max_matches,omitempty"`
}

// marketResponse is the representation of one market configuration.
type marketResponse struct {
	ID            string `json:"id"`
	IDHash        uint64 `json:"id_hash"`
	Kind          string `json:"kind"`
	BaseAsset     uint64 `json:"base_asset"`
	QuoteAsset    uint64 `json:"quote_asset"`
	PriceScale    int64  `json:"price_scale"`
	FixedPrice    int64  `json:"fixed_price,omitempty"`
	ClearInterval int64  `json:"clear_interval,omitempty"`
	MaxMatches    int    `json:"max_matches"`
}

func toMarketResponse(cfg domain.MarketConfig) marketResponse {
	return marketResponse{
		ID:            cfg.ID,
		IDHash:        cfg.IDHash,
		Kind:          string(cfg.Kind),
		BaseAsset:     cfg.BaseAsset,
		QuoteAsset:    cfg.QuoteAsset,
		PriceScale:    cfg.PriceScale,
		FixedPrice:    cfg.FixedPrice,
		ClearInterval: int64(cfg.ClearInterval),
		MaxMatches:    cfg.EffectiveMaxMatches(),
	}
}

// Register handles POST /markets.
func (h *MarketHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, domain.ErrInvalidArgument.Error(), err.Error())
		return
	}

	cfg := &domain.MarketConfig{
		ID:            req.ID,
		IDHash:        req.IDHash,
		Kind:          domain.ProviderKind(req.Kind),
		BaseAsset:     req.BaseAsset,
		QuoteAsset:    req.QuoteAsset,
		PriceScale:    req.PriceScale,
		FixedPrice:    req.FixedPrice,
		ClearInterval: domain.Tick(req.ClearInterval),
		MaxMatches:    req.MaxMatches,
	}
	if _, err := h.markets.Register(cfg); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toMarketResponse(*cfg))
}

// List handles GET /markets. Enumeration order is the registry's
// deterministic (id hash, id) order.
func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	cfgs := h.markets.List()
	out := make([]marketResponse, 0, len(cfgs))
	for _, cfg := range cfgs {
		out = append(out, toMarketResponse(cfg))
	}
	WriteJSON(w, http.StatusOK, map[string]any{"markets": out})
}

// Get handles GET /markets/{market_id}.
func (h *MarketHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.markets.Get(chi.URLParam(r, "market_id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toMarketResponse(cfg))
}

// bookLevel is the JSON shape of one aggregated price level.
type bookLevel struct {
	Price         int64 `json:"price"`
	TotalQuantity int64 `json:"total_quantity"`
	OrderCount    int   `json:"order_count"`
}

func toBookLevels(levels []engine.PriceLevel) []bookLevel {
	out := make([]bookLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, bookLevel{Price: l.Price, TotalQuantity: l.TotalQuantity, OrderCount: l.OrderCount})
	}
	return out
}

// Book handles GET /markets/{market_id}/book?depth=N.
func (h *MarketHandler) Book(w http.ResponseWriter, r *http.Request) {
	depth := 10
	if v := r.URL.Query().Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteError(w, http.StatusBadRequest, domain.ErrInvalidArgument.Error(), "depth must be a positive integer")
			return
		}
		depth = n
	}
	bids, asks, err := h.markets.Depth(chi.URLParam(r, "market_id"), depth)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"bids": toBookLevels(bids),
		"asks": toBookLevels(asks),
	})
}

// NextDue handles GET /markets/{market_id}/due. A market with nothing
// pending answers 404 with the not_found code.
func (h *MarketHandler) NextDue(w http.ResponseWriter, r *http.Request) {
	due, err := h.markets.NextDue(chi.URLParam(r, "market_id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"next_due": int64(due)})
}

// GlobalDue handles GET /due.
func (h *MarketHandler) GlobalDue(w http.ResponseWriter, r *http.Request) {
	due, err := h.markets.NextGlobalDue()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"next_due": int64(due)})
}

// clearRequest is the POST /markets/{market_id}/clear request body.
type clearRequest struct {
	Now int64 `json:"now"`
}

// tradeResponse is the JSON shape of one executed trade.
type tradeResponse struct {
	TradeID       uint64 `json:"trade_id"`
	BuyOrderID    uint64 `json:"buy_order_id"`
	SellOrderID   uint64 `json:"sell_order_id"`
	BuyAccountID  uint64 `json:"buy_account_id"`
	SellAccountID uint64 `json:"sell_account_id"`
	BaseAsset     uint64 `json:"base_asset"`
	QuoteAsset    uint64 `json:"quote_asset"`
	QuantityBase  int64  `json:"quantity_base"`
	QuantityQuote int64  `json:"quantity_quote"`
	Price         int64  `json:"price,omitempty"`
	ExecutedTick  int64  `json:"executed_tick"`
	SettleTick    int64  `json:"settle_tick"`
}

func toTradeResponses(trades []*domain.Trade) []tradeResponse {
	out := make([]tradeResponse, 0, len(trades))
	for _, t := range trades {
		out = append(out, tradeResponse{
			TradeID:       t.TradeID,
			BuyOrderID:    t.BuyOrderID,
			SellOrderID:   t.SellOrderID,
			BuyAccountID:  t.BuyAccountID,
			SellAccountID: t.SellAccountID,
			BaseAsset:     t.BaseAsset,
			QuoteAsset:    t.QuoteAsset,
			QuantityBase:  t.QuantityBase,
			QuantityQuote: t.QuantityQuote,
			Price:         t.Price,
			ExecutedTick:  int64(t.ExecutedTick),
			SettleTick:    int64(t.SettleTick),
		})
	}
	return out
}

// Clear handles POST /markets/{market_id}/clear: runs a clear at the
// caller-supplied logical tick and settles any resulting trades.
func (h *MarketHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, domain.ErrInvalidArgument.Error(), err.Error())
		return
	}

	res, err := h.markets.ClearAndSettle(chi.URLParam(r, "market_id"), domain.Tick(req.Now))
	if err != nil {
		if res != nil && len(res.Trades) > 0 {
			// Settlement failed after matching: report the error together
			// with the trades that were produced, so the caller can see
			// what matched before the ledger rejected the batch.
			status, code := domainStatus(err)
			WriteJSON(w, status, map[string]any{
				"error":   code,
				"message": err.Error(),
				"trades":  toTradeResponses(res.Trades),
			})
			return
		}
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"trades":   toTradeResponses(res.Trades),
		"quotes":   res.Quotes,
		"next_due": int64(res.NextDue),
	})
}
