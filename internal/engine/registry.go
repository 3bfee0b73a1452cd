package engine

import (
	"fmt"
	"sort"

	"github.com/tickclear/tickclear/internal/domain"
	"github.com/tickclear/tickclear/internal/ledger"
	"github.com/tickclear/tickclear/internal/settle"
)

// marketEntry pairs a market's configuration with its provider instance.
// The registry owns both exclusively for the entry's lifetime.
type marketEntry struct {
	cfg      domain.MarketConfig
	provider Provider
}

// Registry owns the set of markets: it validates configuration, constructs
// providers, routes operations by market identifier, keeps enumeration in
// a deterministic (id hash, id string) order, and aggregates next-due
// scheduling across all markets.
//
// A Registry is not safe for concurrent mutation; callers serialize access
// externally. It is an explicit, constructible aggregate — never global
// state.
type Registry struct {
	markets   map[uint64]*marketEntry
	order     []*marketEntry // sorted by (IDHash, ID)
	lastError string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		markets: make(map[uint64]*marketEntry),
	}
}

// Close tears down every registered market. Providers hold no external
// resources, so dropping the references is the whole teardown.
func (r *Registry) Close() {
	r.markets = make(map[uint64]*marketEntry)
	r.order = nil
}

// Register validates a market configuration, constructs its provider, and
// inserts the market. The returned identifier is the market's 64-bit id
// hash. A provider that fails initialization is discarded and the registry
// is left exactly as it was.
func (r *Registry) Register(cfg *domain.MarketConfig) (uint64, error) {
	if cfg == nil {
		return 0, domain.ErrInvalidArgument
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if _, exists := r.markets[cfg.IDHash]; exists {
		return 0, fmt.Errorf("market %q (hash %#x): %w", cfg.ID, cfg.IDHash, domain.ErrDuplicateID)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return 0, fmt.Errorf("initializing market %q: %w", cfg.ID, err)
	}

	entry := &marketEntry{cfg: *cfg, provider: provider}
	r.markets[cfg.IDHash] = entry

	idx := sort.Search(len(r.order), func(i int) bool {
		if r.order[i].cfg.IDHash != entry.cfg.IDHash {
			return r.order[i].cfg.IDHash > entry.cfg.IDHash
		}
		return r.order[i].cfg.ID > entry.cfg.ID
	})
	r.order = append(r.order, nil)
	copy(r.order[idx+1:], r.order[idx:])
	r.order[idx] = entry

	return cfg.IDHash, nil
}

// Get returns a copy of the configuration for a market.
func (r *Registry) Get(marketID string) (domain.MarketConfig, error) {
	entry, err := r.lookup(marketID)
	if err != nil {
		return domain.MarketConfig{}, err
	}
	return entry.cfg, nil
}

// Markets enumerates registered market configurations in the registry's
// deterministic (id hash, id string) order.
func (r *Registry) Markets() []domain.MarketConfig {
	out := make([]domain.MarketConfig, 0, len(r.order))
	for _, entry := range r.order {
		out = append(out, entry.cfg)
	}
	return out
}

// SubmitOrder routes an order to the market's provider. The
// acknowledgement carries the order's status and, when meaningful, the
// tick at which the market next needs clearing.
func (r *Registry) SubmitOrder(marketID string, o *domain.Order) (Ack, error) {
	entry, err := r.lookup(marketID)
	if err != nil {
		return Ack{}, err
	}
	return entry.provider.SubmitOrder(o)
}

// CancelOrder routes a cancellation to the market's provider.
func (r *Registry) CancelOrder(marketID string, orderID uint64) error {
	entry, err := r.lookup(marketID)
	if err != nil {
		return err
	}
	return entry.provider.CancelOrder(orderID)
}

// Clear routes a clear call to the market's provider. The result is never
// nil: a failed dispatch yields an empty result, never stale data.
func (r *Registry) Clear(marketID string, now domain.Tick) (*ClearResult, error) {
	res := &ClearResult{}
	entry, err := r.lookup(marketID)
	if err != nil {
		return res, err
	}
	got, err := entry.provider.Clear(now)
	if got != nil {
		res = got
	}
	return res, err
}

// NextDueTick reports when a market next needs clearing, or
// domain.ErrNotFound when the provider has nothing pending.
func (r *Registry) NextDueTick(marketID string) (domain.Tick, error) {
	entry, err := r.lookup(marketID)
	if err != nil {
		return 0, err
	}
	return entry.provider.NextDueTick()
}

// NextGlobalDue scans every market in deterministic order and returns the
// minimum positive due tick, or domain.ErrNotFound when no market has
// anything pending.
func (r *Registry) NextGlobalDue() (domain.Tick, error) {
	var (
		min   domain.Tick
		found bool
	)
	for _, entry := range r.order {
		due, err := entry.provider.NextDueTick()
		if err != nil || due <= 0 {
			continue
		}
		if !found || due < min {
			min = due
			found = true
		}
	}
	if !found {
		return 0, domain.ErrNotFound
	}
	return min, nil
}

// depthReporter is implemented by providers that maintain a priced book
// and can report aggregated price levels.
type depthReporter interface {
	depth(n int) (bids, asks []PriceLevel)
}

// Depth returns up to n aggregated price levels per side for a market.
// Markets without a price axis (barter) report empty sides.
func (r *Registry) Depth(marketID string, n int) (bids, asks []PriceLevel, err error) {
	entry, err := r.lookup(marketID)
	if err != nil {
		return nil, nil, err
	}
	if dr, ok := entry.provider.(depthReporter); ok {
		bids, asks = dr.depth(n)
	}
	return bids, asks, nil
}

// SettleTrades posts a batch of trades to the ledger via the settlement
// bridge. See settle.Trades for the fail-fast batch semantics.
func (r *Registry) SettleTrades(l ledger.Ledger, trades []*domain.Trade, now domain.Tick) error {
	return settle.Trades(l, trades, now)
}

// LastError returns a human-readable description of the most recent
// routing failure. Advisory only: it is never part of control flow, and
// callers must rely on returned errors for correctness.
func (r *Registry) LastError() string {
	return r.lastError
}

// lookup resolves a market identifier string to its entry, recording a
// diagnostic on failure.
func (r *Registry) lookup(marketID string) (*marketEntry, error) {
	if marketID == "" {
		return nil, domain.ErrInvalidArgument
	}
	entry, ok := r.markets[domain.HashID(marketID)]
	if !ok {
		r.lastError = fmt.Sprintf("market %q not registered", marketID)
		return nil, fmt.Errorf("market %q: %w", marketID, domain.ErrNotFound)
	}
	return entry, nil
}
