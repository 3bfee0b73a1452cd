package engine

import "github.com/tickclear/tickclear/internal/domain"

// clearinghouseProvider is a central netting provider: a periodic batch
// cross in which every matched pair executes at one uniform clearing
// price. The price is the limit of the marginal (last crossing) ask, which
// is fully determined by the resting set and therefore deterministic.
type clearinghouseProvider struct {
	*pricedBook
	interval  domain.Tick
	lastClear domain.Tick
}

func newClearinghouseProvider(cfg *domain.MarketConfig) (Provider, error) {
	if cfg.PriceScale <= 0 || cfg.ClearInterval <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &clearinghouseProvider{
		pricedBook: newPricedBook(cfg),
		interval:   cfg.ClearInterval,
	}, nil
}

func (p *clearinghouseProvider) SubmitOrder(o *domain.Order) (Ack, error) {
	ack, err := p.submit(o)
	if err != nil {
		return ack, err
	}
	ack.NextDue = p.lastClear + p.interval
	return ack, nil
}

func (p *clearinghouseProvider) CancelOrder(orderID uint64) error {
	return p.cancel(orderID)
}

func (p *clearinghouseProvider) Clear(now domain.Tick) (*ClearResult, error) {
	res := &ClearResult{}

	if now < p.lastClear+p.interval {
		res.NextDue = p.lastClear + p.interval
		return res, nil
	}
	p.lastClear = now

	clearing, ok := p.clearingPrice()
	if ok {
		trades, err := p.cross(now, func(bid, ask bookEntry) (int64, bool) {
			if bid.Price < ask.Price {
				return 0, false
			}
			return clearing, true
		})
		res.Trades = trades
		if err != nil {
			res.NextDue = p.lastClear + p.interval
			return res, err
		}
		res.Quotes = append(res.Quotes, domain.Quote{Bid: clearing, Ask: clearing})
	}

	p.expireIOC()
	res.NextDue = p.lastClear + p.interval
	return res, nil
}

// clearingPrice walks the crossing region of the book without mutating it
// and returns the marginal ask's limit — the uniform price every netted
// pair will execute at. ok is false when nothing crosses.
func (p *clearinghouseProvider) clearingPrice() (int64, bool) {
	bids := make([]bookEntry, 0, p.book.bids.Len())
	p.book.bids.Ascend(func(e bookEntry) bool {
		bids = append(bids, e)
		return true
	})
	asks := make([]bookEntry, 0, p.book.asks.Len())
	p.book.asks.Ascend(func(e bookEntry) bool {
		asks = append(asks, e)
		return true
	})

	var (
		price   int64
		crossed bool
		bi, ai  int
		bidRem  int64
		askRem  int64
	)
	for bi < len(bids) && ai < len(asks) {
		if bidRem == 0 {
			bidRem = bids[bi].Order.RemainingQuantity
		}
		if askRem == 0 {
			askRem = asks[ai].Order.RemainingQuantity
		}
		if bids[bi].Price < asks[ai].Price {
			break
		}
		price = asks[ai].Price
		crossed = true
		fill := bidRem
		if askRem < fill {
			fill = askRem
		}
		bidRem -= fill
		askRem -= fill
		if bidRem == 0 {
			bi++
		}
		if askRem == 0 {
			ai++
		}
	}
	return price, crossed
}

func (p *clearinghouseProvider) NextDueTick() (domain.Tick, error) {
	return p.lastClear + p.interval, nil
}
