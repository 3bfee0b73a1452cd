package domain

import "fmt"

// ProviderKind selects the matching discipline for a market. The set is
// closed: there are exactly five disciplines and no plugin mechanism.
type ProviderKind string

const (
	KindBarter        ProviderKind = "barter"
	KindFixedPrice    ProviderKind = "fixed_price"
	KindAuction       ProviderKind = "auction"
	KindOrderBook     ProviderKind = "order_book"
	KindClearinghouse ProviderKind = "clearinghouse"
)

// DefaultMaxMatches caps the number of matches processed by a single clear
// call when the market configuration leaves MaxMatches unset.
const DefaultMaxMatches = 32

// MarketConfig describes one market to be registered. The registry owns
// the config for the lifetime of the market entry.
type MarketConfig struct {
	ID         string
	IDHash     uint64 // 0 = compute from ID; non-zero values are cross-checked
	Kind       ProviderKind
	BaseAsset  uint64
	QuoteAsset uint64

	// PriceScale is the number of scaled quote units per whole quote unit.
	// Required positive for every kind except barter.
	PriceScale int64

	// FixedPrice is the static execution price for fixed_price markets.
	FixedPrice int64

	// ClearInterval is the spacing, in ticks, between batch clears. Only
	// batch providers (auction, clearinghouse) consult it.
	ClearInterval Tick

	// MaxMatches caps matches per clear call; 0 selects DefaultMaxMatches.
	MaxMatches int
}

// EffectiveMaxMatches returns the per-clear match cap with the default applied.
func (c *MarketConfig) EffectiveMaxMatches() int {
	if c.MaxMatches <= 0 {
		return DefaultMaxMatches
	}
	return c.MaxMatches
}

// Validate checks the per-kind required fields and resolves the identifier
// hash. It mutates IDHash in place when it was left unset. A caller-supplied
// hash that disagrees with the computed hash is rejected rather than
// silently trusted.
func (c *MarketConfig) Validate() error {
	if c == nil {
		return ErrInvalidArgument
	}
	if c.ID == "" {
		return &ValidationError{Message: "market id must be non-empty"}
	}
	computed := HashID(c.ID)
	if c.IDHash != 0 && c.IDHash != computed {
		return &ValidationError{Message: fmt.Sprintf("market %q: supplied id hash %#x does not match computed %#x", c.ID, c.IDHash, computed)}
	}
	c.IDHash = computed

	switch c.Kind {
	case KindBarter:
		// Barter markets have no price axis; PriceScale is not required.
	case KindFixedPrice:
		if c.PriceScale <= 0 {
			return &ValidationError{Message: fmt.Sprintf("market %q: price scale must be positive", c.ID)}
		}
		if c.FixedPrice <= 0 {
			return &ValidationError{Message: fmt.Sprintf("market %q: fixed price must be positive", c.ID)}
		}
	case KindAuction, KindOrderBook, KindClearinghouse:
		if c.PriceScale <= 0 {
			return &ValidationError{Message: fmt.Sprintf("market %q: price scale must be positive", c.ID)}
		}
	case "":
		return &ValidationError{Message: fmt.Sprintf("market %q: provider kind must be set", c.ID)}
	default:
		return fmt.Errorf("market %q: provider kind %q: %w", c.ID, c.Kind, ErrNotImplemented)
	}
	return nil
}
