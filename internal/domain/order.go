package domain

// Tick is a discrete logical simulation time unit. Ticks are supplied by
// the caller and never derived from wall-clock time; every ordering
// decision in the engine is based on caller-provided ticks, prices, and
// identifiers only.
type Tick int64

// TimeInForce controls how long an unfilled order remains with a provider.
type TimeInForce string

const (
	// TIFGoodTillCancelled rests until explicitly cancelled or fully filled.
	TIFGoodTillCancelled TimeInForce = "good_till_cancelled"
	// TIFImmediateOrCancel is discarded at the end of the clear call that
	// processed it if any quantity remains unfilled.
	TIFImmediateOrCancel TimeInForce = "immediate_or_cancel"
)

// OrderSide indicates whether an exchange order is a bid (buy) or ask (sell).
type OrderSide string

const (
	OrderSideBid OrderSide = "bid"
	OrderSideAsk OrderSide = "ask"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusResting         OrderStatus = "resting"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusExpired         OrderStatus = "expired"
)

// Order is a submitted trade intent. Two shapes share the struct: a priced
// exchange order (Side, Quantity, Price populated) and a reciprocal barter
// offer (Offer*/Want* populated). An order mutates only by partial fill
// (remaining quantity reduction) or removal, and never outlives the
// provider instance holding it.
type Order struct {
	OrderID    uint64
	AccountID  uint64
	SubmitTick Tick
	TIF        TimeInForce

	// Exchange shape.
	Side     OrderSide
	Quantity int64
	Price    int64 // limit price in scaled quote units, required positive; fixed-price markets accept 0 as "at the configured price"

	// Barter shape.
	OfferAsset    uint64
	OfferQuantity int64
	WantAsset     uint64
	WantQuantity  int64

	RemainingQuantity int64
	FilledQuantity    int64
	Status            OrderStatus
}

// IsBarter reports whether the order carries the barter shape.
func (o *Order) IsBarter() bool {
	return o.OfferAsset != 0 || o.WantAsset != 0
}

// Terminal reports whether the order has left its provider for good.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusExpired:
		return true
	}
	return false
}
