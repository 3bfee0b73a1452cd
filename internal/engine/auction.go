package engine

import "github.com/tickclear/tickclear/internal/domain"

// auctionProvider is a batch ("call") auction. Orders accumulate between
// clears; a clear performed at or after lastClear+ClearInterval crosses
// the best bid against the best ask at the passive ask limit. The first
// interval is measured from market creation. The provider is periodic: its
// next-due tick is always lastClear+ClearInterval, whether or not the
// previous clear produced trades.
type auctionProvider struct {
	*pricedBook
	interval  domain.Tick
	lastClear domain.Tick
}

func newAuctionProvider(cfg *domain.MarketConfig) (Provider, error) {
	if cfg.PriceScale <= 0 || cfg.ClearInterval <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &auctionProvider{
		pricedBook: newPricedBook(cfg),
		interval:   cfg.ClearInterval,
	}, nil
}

func (p *auctionProvider) SubmitOrder(o *domain.Order) (Ack, error) {
	ack, err := p.submit(o)
	if err != nil {
		return ack, err
	}
	// Batch markets are due on the interval boundary, not on order arrival.
	ack.NextDue = p.lastClear + p.interval
	return ack, nil
}

func (p *auctionProvider) CancelOrder(orderID uint64) error {
	return p.cancel(orderID)
}

func (p *auctionProvider) Clear(now domain.Tick) (*ClearResult, error) {
	res := &ClearResult{}

	if now < p.lastClear+p.interval {
		// Not yet due; the book is left untouched so an early clear can
		// never change the outcome of the one that eventually runs.
		res.NextDue = p.lastClear + p.interval
		return res, nil
	}
	p.lastClear = now

	trades, err := p.cross(now, func(bid, ask bookEntry) (int64, bool) {
		if bid.Price < ask.Price {
			return 0, false
		}
		return ask.Price, true
	})
	res.Trades = trades
	res.NextDue = p.lastClear + p.interval
	if err != nil {
		return res, err
	}

	p.expireIOC()

	if q, ok := p.topOfBook(); ok {
		res.Quotes = append(res.Quotes, q)
	}
	return res, nil
}

func (p *auctionProvider) NextDueTick() (domain.Tick, error) {
	return p.lastClear + p.interval, nil
}
