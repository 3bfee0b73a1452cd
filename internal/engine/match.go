package engine

import (
	"fmt"

	"github.com/tickclear/tickclear/internal/domain"
)

// crossFunc decides whether the current best bid and best ask cross and,
// if so, at what price the fill executes. Returning ok=false stops the
// match loop.
type crossFunc func(bid, ask bookEntry) (price int64, ok bool)

// pricedBook is the resting-order state shared by the four priced
// providers. It owns submission validation, cancellation, the capped match
// loop, the immediate-or-cancel expiry sweep, and due-tick reporting; the
// providers layer their own timing and price conventions on top.
type pricedBook struct {
	cfg         domain.MarketConfig
	book        *sideBook
	nextTradeID uint64
}

func newPricedBook(cfg *domain.MarketConfig) *pricedBook {
	return &pricedBook{
		cfg:  *cfg,
		book: newSideBook(),
	}
}

// submit validates an exchange-shape order and rests it on the book.
func (p *pricedBook) submit(o *domain.Order) (Ack, error) {
	if o == nil {
		return Ack{}, domain.ErrInvalidArgument
	}
	if o.OrderID == 0 || o.AccountID == 0 {
		return Ack{}, fmt.Errorf("order id and account id must be non-zero: %w", domain.ErrInvalidArgument)
	}
	if o.IsBarter() {
		return Ack{}, fmt.Errorf("order %d: barter shape submitted to priced market: %w", o.OrderID, domain.ErrInvalidArgument)
	}
	if o.Side != domain.OrderSideBid && o.Side != domain.OrderSideAsk {
		return Ack{}, fmt.Errorf("order %d: side must be bid or ask: %w", o.OrderID, domain.ErrInvalidArgument)
	}
	if o.Quantity <= 0 {
		return Ack{}, fmt.Errorf("order %d: quantity must be positive: %w", o.OrderID, domain.ErrInvalidArgument)
	}
	if o.Price <= 0 {
		return Ack{}, fmt.Errorf("order %d: price must be positive: %w", o.OrderID, domain.ErrInvalidArgument)
	}
	if p.book.Contains(o.OrderID) {
		return Ack{}, fmt.Errorf("order %d: %w", o.OrderID, domain.ErrDuplicateID)
	}

	o.RemainingQuantity = o.Quantity
	o.FilledQuantity = 0
	o.Status = domain.OrderStatusResting

	p.book.Insert(bookEntry{
		Price:      o.Price,
		SubmitTick: o.SubmitTick,
		OrderID:    o.OrderID,
		Order:      o,
	})

	ack := Ack{Status: o.Status}
	if due, ok := p.book.MinSubmitTick(); ok {
		ack.NextDue = due
	}
	return ack, nil
}

// cancel removes a resting order by id.
func (p *pricedBook) cancel(orderID uint64) error {
	entry, ok := p.book.index[orderID]
	if !ok {
		return fmt.Errorf("order %d: %w", orderID, domain.ErrNotFound)
	}
	p.book.Remove(orderID)
	entry.Order.Status = domain.OrderStatusCancelled
	return nil
}

// cross runs the capped match loop: while the cross function reports a
// crossing pair, fill the minimum of the two remainders, produce a trade,
// and drop fully filled entries from the book. Orders left with remainder
// stay resting as partially filled.
func (p *pricedBook) cross(now domain.Tick, fn crossFunc) ([]*domain.Trade, error) {
	var trades []*domain.Trade
	max := p.cfg.EffectiveMaxMatches()

	for len(trades) < max {
		bid, okBid := p.book.BestBid()
		ask, okAsk := p.book.BestAsk()
		if !okBid || !okAsk {
			break
		}
		price, ok := fn(bid, ask)
		if !ok {
			break
		}

		fill := bid.Order.RemainingQuantity
		if ask.Order.RemainingQuantity < fill {
			fill = ask.Order.RemainingQuantity
		}

		quoteQty, err := domain.MulDiv(price, fill, p.cfg.PriceScale)
		if err != nil {
			return trades, fmt.Errorf("sizing quote leg for orders %d/%d: %w", bid.OrderID, ask.OrderID, err)
		}
		if quoteQty == 0 {
			// The quote leg truncates to zero: executing would move base
			// units for nothing and produce a trade settlement must reject.
			// The pair stays resting until a larger fill carries value.
			break
		}

		trades = append(trades, p.makeTrade(bid.Order, ask.Order, price, fill, quoteQty, now))

		p.applyFill(bid, fill)
		p.applyFill(ask, fill)
	}
	return trades, nil
}

// makeTrade builds a trade between a bid and an ask for the given fill
// quantity and pre-sized quote leg.
func (p *pricedBook) makeTrade(buy, sell *domain.Order, price, fill, quoteQty int64, now domain.Tick) *domain.Trade {
	p.nextTradeID++
	return &domain.Trade{
		TradeID:       p.nextTradeID,
		BuyOrderID:    buy.OrderID,
		SellOrderID:   sell.OrderID,
		BuyAccountID:  buy.AccountID,
		SellAccountID: sell.AccountID,
		BaseAsset:     p.cfg.BaseAsset,
		QuoteAsset:    p.cfg.QuoteAsset,
		QuantityBase:  fill,
		QuantityQuote: quoteQty,
		Price:         price,
		ExecutedTick:  now,
		SettleTick:    now,
	}
}

// applyFill reduces an entry's remaining quantity and removes it from the
// book once fully filled.
func (p *pricedBook) applyFill(entry bookEntry, fill int64) {
	o := entry.Order
	o.RemainingQuantity -= fill
	o.FilledQuantity += fill
	if o.RemainingQuantity == 0 {
		o.Status = domain.OrderStatusFilled
		p.book.Remove(o.OrderID)
	} else {
		o.Status = domain.OrderStatusPartiallyFilled
	}
}

// expireIOC discards every immediate-or-cancel order still resting at the
// end of a clear call. An order with no fill expires; a partial fill that
// is being discarded counts as cancelled remainder.
func (p *pricedBook) expireIOC() {
	for _, entry := range p.book.restingIOC() {
		p.book.Remove(entry.OrderID)
		if entry.Order.FilledQuantity == 0 {
			entry.Order.Status = domain.OrderStatusExpired
		} else {
			entry.Order.Status = domain.OrderStatusCancelled
		}
		entry.Order.RemainingQuantity = 0
	}
}

// nextDue reports the earliest submission tick among resting orders,
// which is when the book first has something worth clearing.
func (p *pricedBook) nextDue() (domain.Tick, error) {
	due, ok := p.book.MinSubmitTick()
	if !ok {
		return 0, domain.ErrNotFound
	}
	return due, nil
}

// depth reports aggregated price levels for book inspection.
func (p *pricedBook) depth(n int) (bids, asks []PriceLevel) {
	return p.book.TopBids(n), p.book.TopAsks(n)
}

// topOfBook builds the indicative quote from the current best bid and ask.
// The second result is false when both sides are empty.
func (p *pricedBook) topOfBook() (domain.Quote, bool) {
	var q domain.Quote
	if bid, ok := p.book.BestBid(); ok {
		q.Bid = bid.Price
		q.BidQuantity = bid.Order.RemainingQuantity
	}
	if ask, ok := p.book.BestAsk(); ok {
		q.Ask = ask.Price
		q.AskQuantity = ask.Order.RemainingQuantity
	}
	return q, q.BidQuantity > 0 || q.AskQuantity > 0
}
