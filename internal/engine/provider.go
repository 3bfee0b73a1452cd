// Package engine implements the market registry and the five matching
// providers (barter, fixed-price, auction, order-book, clearinghouse)
// behind a single closed interface. The engine is fully synchronous and
// deterministic: no wall-clock reads, no randomness, every ordering
// decision derived from caller-supplied prices, ticks, and identifiers.
package engine

import (
	"fmt"

	"github.com/tickclear/tickclear/internal/domain"
)

// Ack acknowledges an order submission. NextDue, when non-zero, is the
// tick at which the market next needs a clear call.
type Ack struct {
	Status  domain.OrderStatus
	NextDue domain.Tick
}

// ClearResult is the outcome of one clear call: the trades produced (in
// match order), optional indicative quotes, and the tick at which the
// provider should next be cleared (0 when nothing is pending).
type ClearResult struct {
	Trades  []*domain.Trade
	Quotes  []domain.Quote
	NextDue domain.Tick
}

// Provider is the uniform operation set shared by all five matching
// disciplines. The set of implementations is closed; there is no plugin
// mechanism. A provider owns the resting-order state for exactly one
// market and is owned exclusively by its registry entry.
type Provider interface {
	// SubmitOrder accepts an order into the provider's resting state.
	SubmitOrder(o *domain.Order) (Ack, error)

	// CancelOrder removes a resting order. domain.ErrNotFound if unknown.
	CancelOrder(orderID uint64) error

	// Clear attempts to match resting orders at the given tick.
	Clear(now domain.Tick) (*ClearResult, error)

	// NextDueTick reports when the provider next needs a clear call, or
	// domain.ErrNotFound when nothing is pending.
	NextDueTick() (domain.Tick, error)
}

// newProvider constructs and initializes the provider selected by the
// configuration. The config must already have passed Validate; the
// constructors re-check the fields they depend on so a provider can still
// reject a configuration the generic validation missed.
func newProvider(cfg *domain.MarketConfig) (Provider, error) {
	switch cfg.Kind {
	case domain.KindBarter:
		return newBarterProvider(cfg)
	case domain.KindFixedPrice:
		return newFixedPriceProvider(cfg)
	case domain.KindAuction:
		return newAuctionProvider(cfg)
	case domain.KindOrderBook:
		return newOrderBookProvider(cfg)
	case domain.KindClearinghouse:
		return newClearinghouseProvider(cfg)
	}
	return nil, fmt.Errorf("provider kind %q: %w", cfg.Kind, domain.ErrNotImplemented)
}
