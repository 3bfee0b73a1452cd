package engine

import "github.com/tickclear/tickclear/internal/domain"

// fixedPriceProvider dispenses and accepts at a statically configured
// price: the market behaves as a standing quote at FixedPrice. Bids with a
// limit at or above the fixed price and asks with a limit at or below it
// are eligible; a limit of zero means "at the fixed price". Every
// execution happens at the fixed price regardless of the limits involved.
type fixedPriceProvider struct {
	*pricedBook
	fixed int64
}

func newFixedPriceProvider(cfg *domain.MarketConfig) (Provider, error) {
	if cfg.PriceScale <= 0 || cfg.FixedPrice <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &fixedPriceProvider{
		pricedBook: newPricedBook(cfg),
		fixed:      cfg.FixedPrice,
	}, nil
}

func (p *fixedPriceProvider) SubmitOrder(o *domain.Order) (Ack, error) {
	if o != nil && o.Price == 0 {
		// Normalize "at market" to the fixed price so book priority stays
		// a pure (price, tick, id) order.
		o.Price = p.fixed
	}
	return p.submit(o)
}

func (p *fixedPriceProvider) CancelOrder(orderID uint64) error {
	return p.cancel(orderID)
}

func (p *fixedPriceProvider) Clear(now domain.Tick) (*ClearResult, error) {
	res := &ClearResult{}

	trades, err := p.cross(now, func(bid, ask bookEntry) (int64, bool) {
		if bid.Price < p.fixed || ask.Price > p.fixed {
			return 0, false
		}
		return p.fixed, true
	})
	res.Trades = trades
	if err != nil {
		return res, err
	}

	p.expireIOC()

	// The standing quote is always present, sized by whatever rests.
	q := domain.Quote{Bid: p.fixed, Ask: p.fixed}
	if top, ok := p.topOfBook(); ok {
		q.BidQuantity = top.BidQuantity
		q.AskQuantity = top.AskQuantity
	}
	res.Quotes = append(res.Quotes, q)

	if due, derr := p.nextDue(); derr == nil {
		res.NextDue = due
	}
	return res, nil
}

func (p *fixedPriceProvider) NextDueTick() (domain.Tick, error) {
	return p.nextDue()
}
