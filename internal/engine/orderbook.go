package engine

import "github.com/tickclear/tickclear/internal/domain"

// orderBookProvider is the continuous two-sided book. Matching happens in
// clear calls: while the best bid's limit is at or above the best ask's
// limit, the pair fills the minimum of the two remainders at the passive
// (ask-side) limit price, capped per clear by the configured match limit.
type orderBookProvider struct {
	*pricedBook
}

func newOrderBookProvider(cfg *domain.MarketConfig) (Provider, error) {
	if cfg.PriceScale <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &orderBookProvider{pricedBook: newPricedBook(cfg)}, nil
}

func (p *orderBookProvider) SubmitOrder(o *domain.Order) (Ack, error) {
	return p.submit(o)
}

func (p *orderBookProvider) CancelOrder(orderID uint64) error {
	return p.cancel(orderID)
}

func (p *orderBookProvider) Clear(now domain.Tick) (*ClearResult, error) {
	res := &ClearResult{}

	trades, err := p.cross(now, func(bid, ask bookEntry) (int64, bool) {
		if bid.Price < ask.Price {
			return 0, false
		}
		// Execution at the passive side's limit: the ask.
		return ask.Price, true
	})
	res.Trades = trades
	if err != nil {
		return res, err
	}

	p.expireIOC()

	if q, ok := p.topOfBook(); ok {
		res.Quotes = append(res.Quotes, q)
	}
	if due, derr := p.nextDue(); derr == nil {
		res.NextDue = due
	}
	return res, nil
}

func (p *orderBookProvider) NextDueTick() (domain.Tick, error) {
	return p.nextDue()
}
