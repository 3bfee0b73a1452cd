package domain

// Trade represents a matched execution between two orders. Trades are
// value objects returned transiently from a clear call; the registry does
// not retain them. Trade identifiers are drawn from a per-market monotonic
// counter so that identical inputs always yield identical trades.
type Trade struct {
	TradeID       uint64
	BuyOrderID    uint64
	SellOrderID   uint64
	BuyAccountID  uint64
	SellAccountID uint64
	BaseAsset     uint64
	QuoteAsset    uint64
	QuantityBase  int64
	QuantityQuote int64
	Price         int64 // execution price in scaled quote units; 0 for barter
	ExecutedTick  Tick
	SettleTick    Tick
}

// Quote is an indicative price level published by providers that expose
// pricing alongside a clear result. Zero quantity on a side means that
// side is empty.
type Quote struct {
	Bid         int64
	BidQuantity int64
	Ask         int64
	AskQuantity int64
}
