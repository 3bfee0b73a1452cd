package engine

import (
	"fmt"

	"github.com/google/btree"

	"github.com/tickclear/tickclear/internal/domain"
)

// barterEntry is a resting barter offer. Priority is (submit tick, order
// id) — barter has no price axis.
type barterEntry struct {
	SubmitTick domain.Tick
	OrderID    uint64
	Order      *domain.Order
}

func barterLess(a, b barterEntry) bool {
	if a.SubmitTick != b.SubmitTick {
		return a.SubmitTick < b.SubmitTick
	}
	return a.OrderID < b.OrderID
}

// barterProvider matches reciprocal barter offers: two orders match when
// each one's offered asset and quantity exactly equal the other's wanted
// asset and quantity. Matches are always full fills. Ratio-based partial
// matching is deliberately not supported.
type barterProvider struct {
	cfg         domain.MarketConfig
	offers      *btree.BTreeG[barterEntry]
	index       map[uint64]barterEntry
	nextTradeID uint64
}

func newBarterProvider(cfg *domain.MarketConfig) (Provider, error) {
	const degree = 32
	return &barterProvider{
		cfg:    *cfg,
		offers: btree.NewG[barterEntry](degree, barterLess),
		index:  make(map[uint64]barterEntry),
	}, nil
}

func (p *barterProvider) SubmitOrder(o *domain.Order) (Ack, error) {
	if o == nil {
		return Ack{}, domain.ErrInvalidArgument
	}
	if o.OrderID == 0 || o.AccountID == 0 {
		return Ack{}, fmt.Errorf("order id and account id must be non-zero: %w", domain.ErrInvalidArgument)
	}
	if o.OfferAsset == 0 || o.WantAsset == 0 || o.OfferAsset == o.WantAsset {
		return Ack{}, fmt.Errorf("order %d: barter requires two distinct assets: %w", o.OrderID, domain.ErrInvalidArgument)
	}
	if o.OfferQuantity <= 0 || o.WantQuantity <= 0 {
		return Ack{}, fmt.Errorf("order %d: barter quantities must be positive: %w", o.OrderID, domain.ErrInvalidArgument)
	}
	if _, ok := p.index[o.OrderID]; ok {
		return Ack{}, fmt.Errorf("order %d: %w", o.OrderID, domain.ErrDuplicateID)
	}

	o.RemainingQuantity = o.OfferQuantity
	o.FilledQuantity = 0
	o.Status = domain.OrderStatusResting

	entry := barterEntry{SubmitTick: o.SubmitTick, OrderID: o.OrderID, Order: o}
	p.offers.ReplaceOrInsert(entry)
	p.index[o.OrderID] = entry

	ack := Ack{Status: o.Status}
	if due, err := p.NextDueTick(); err == nil {
		ack.NextDue = due
	}
	return ack, nil
}

func (p *barterProvider) CancelOrder(orderID uint64) error {
	entry, ok := p.index[orderID]
	if !ok {
		return fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	p.remove(orderID)
	entry.Order.Status = domain.OrderStatusCancelled
	return nil
}

func (p *barterProvider) remove(orderID uint64) {
	entry, ok := p.index[orderID]
	if !ok {
		return
	}
	delete(p.index, orderID)
	p.offers.Delete(entry)
}

// reciprocal reports whether b's offer is exactly a's want and vice versa.
func reciprocal(a, b *domain.Order) bool {
	return a.WantAsset == b.OfferAsset &&
		a.WantQuantity == b.OfferQuantity &&
		b.WantAsset == a.OfferAsset &&
		b.WantQuantity == a.OfferQuantity
}

func (p *barterProvider) Clear(now domain.Tick) (*ClearResult, error) {
	res := &ClearResult{}

	// Snapshot the resting set in priority order; pairing walks it
	// front-to-back so the earliest offer always picks its earliest
	// reciprocal counterpart.
	entries := make([]barterEntry, 0, p.offers.Len())
	p.offers.Ascend(func(e barterEntry) bool {
		entries = append(entries, e)
		return true
	})

	matched := make([]bool, len(entries))
	max := p.cfg.EffectiveMaxMatches()

	for i := 0; i < len(entries) && len(res.Trades) < max; i++ {
		if matched[i] {
			continue
		}
		for j := i + 1; j < len(entries); j++ {
			if matched[j] || !reciprocal(entries[i].Order, entries[j].Order) {
				continue
			}
			trade := p.makeTrade(entries[i].Order, entries[j].Order, now)
			res.Trades = append(res.Trades, trade)
			matched[i], matched[j] = true, true
			break
		}
	}

	for i, entry := range entries {
		if !matched[i] {
			continue
		}
		o := entry.Order
		o.FilledQuantity = o.OfferQuantity
		o.RemainingQuantity = 0
		o.Status = domain.OrderStatusFilled
		p.remove(o.OrderID)
	}

	p.expireIOC()

	if due, err := p.NextDueTick(); err == nil {
		res.NextDue = due
	}
	return res, nil
}

// makeTrade maps a reciprocal pair onto the buy/sell trade shape. The
// order wanting the market's base asset is the buyer; when neither leg
// touches the configured base asset, the earlier offer takes the buy side
// so the mapping stays deterministic.
func (p *barterProvider) makeTrade(a, b *domain.Order, now domain.Tick) *domain.Trade {
	buyer, seller := a, b
	if b.WantAsset == p.cfg.BaseAsset && a.WantAsset != p.cfg.BaseAsset {
		buyer, seller = b, a
	}
	p.nextTradeID++
	return &domain.Trade{
		TradeID:       p.nextTradeID,
		BuyOrderID:    buyer.OrderID,
		SellOrderID:   seller.OrderID,
		BuyAccountID:  buyer.AccountID,
		SellAccountID: seller.AccountID,
		BaseAsset:     buyer.WantAsset,
		QuoteAsset:    buyer.OfferAsset,
		QuantityBase:  buyer.WantQuantity,
		QuantityQuote: buyer.OfferQuantity,
		Price:         0,
		ExecutedTick:  now,
		SettleTick:    now,
	}
}

// expireIOC discards immediate-or-cancel offers that found no counterpart
// in the clear that processed them.
func (p *barterProvider) expireIOC() {
	var ioc []barterEntry
	p.offers.Ascend(func(e barterEntry) bool {
		if e.Order.TIF == domain.TIFImmediateOrCancel {
			ioc = append(ioc, e)
		}
		return true
	})
	for _, entry := range ioc {
		p.remove(entry.OrderID)
		entry.Order.Status = domain.OrderStatusExpired
		entry.Order.RemainingQuantity = 0
	}
}

func (p *barterProvider) NextDueTick() (domain.Tick, error) {
	if entry, ok := p.offers.Min(); ok {
		return entry.SubmitTick, nil
	}
	return 0, domain.ErrNotFound
}
