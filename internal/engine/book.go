package engine

import (
	"sort"

	"github.com/google/btree"

	"github.com/tickclear/tickclear/internal/domain"
)

// bookEntry is a single order resting on one side of a book. The exported
// key fields (price, submit tick, order id) fully determine the entry's
// priority; nothing about the sequence of API calls that produced the book
// ever influences ordering.
type bookEntry struct {
	Price      int64
	SubmitTick domain.Tick
	OrderID    uint64
	Order      *domain.Order
}

// PriceLevel is an aggregated price level reported by book inspection.
type PriceLevel struct {
	Price         int64
	TotalQuantity int64
	OrderCount    int
}

// bidLess orders the bid side: price descending, then submit tick
// ascending, then order id ascending. Min() therefore returns the best
// bid (highest price, earliest tick, lowest id).
func bidLess(a, b bookEntry) bool {
	if a.Price != b.Price {
		return a.Price > b.Price
	}
	if a.SubmitTick != b.SubmitTick {
		return a.SubmitTick < b.SubmitTick
	}
	return a.OrderID < b.OrderID
}

// askLess orders the ask side: price ascending, then submit tick
// ascending, then order id ascending. Min() returns the best ask.
func askLess(a, b bookEntry) bool {
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.SubmitTick != b.SubmitTick {
		return a.SubmitTick < b.SubmitTick
	}
	return a.OrderID < b.OrderID
}

// sideBook maintains the bid and ask sides of one market using B-trees,
// with a secondary index for O(log n) removal by order id. The total
// (price, tick, id) order is what makes clearing outcomes invariant to the
// sequence in which orders were submitted.
type sideBook struct {
	bids  *btree.BTreeG[bookEntry]
	asks  *btree.BTreeG[bookEntry]
	index map[uint64]bookEntry // order id → entry
}

func newSideBook() *sideBook {
	const degree = 32
	return &sideBook{
		bids:  btree.NewG[bookEntry](degree, bidLess),
		asks:  btree.NewG[bookEntry](degree, askLess),
		index: make(map[uint64]bookEntry),
	}
}

// Insert adds an entry to the side matching the order's Side field.
func (b *sideBook) Insert(entry bookEntry) {
	if entry.Order.Side == domain.OrderSideBid {
		b.bids.ReplaceOrInsert(entry)
	} else {
		b.asks.ReplaceOrInsert(entry)
	}
	b.index[entry.OrderID] = entry
}

// Remove deletes an order from the book by id. It reports whether the
// order was present.
func (b *sideBook) Remove(orderID uint64) bool {
	entry, ok := b.index[orderID]
	if !ok {
		return false
	}
	delete(b.index, orderID)
	// Delete is a no-op on the side the entry isn't on.
	b.bids.Delete(entry)
	b.asks.Delete(entry)
	return true
}

// Contains reports whether an order id currently rests on the book.
func (b *sideBook) Contains(orderID uint64) bool {
	_, ok := b.index[orderID]
	return ok
}

// BestBid returns the highest-priority bid.
func (b *sideBook) BestBid() (bookEntry, bool) {
	return b.bids.Min()
}

// BestAsk returns the highest-priority ask.
func (b *sideBook) BestAsk() (bookEntry, bool) {
	return b.asks.Min()
}

// Len returns the number of resting orders across both sides.
func (b *sideBook) Len() int {
	return b.bids.Len() + b.asks.Len()
}

// MinSubmitTick returns the earliest submission tick among all resting
// orders. The second result is false when the book is empty.
func (b *sideBook) MinSubmitTick() (domain.Tick, bool) {
	found := false
	var min domain.Tick
	for _, entry := range b.index {
		if !found || entry.SubmitTick < min {
			min = entry.SubmitTick
			found = true
		}
	}
	return min, found
}

// restingIOC returns every immediate-or-cancel entry still on the book, in
// (tick, id) order, so the post-clear expiry sweep is deterministic.
func (b *sideBook) restingIOC() []bookEntry {
	var out []bookEntry
	collect := func(entry bookEntry) bool {
		if entry.Order.TIF == domain.TIFImmediateOrCancel {
			out = append(out, entry)
		}
		return true
	}
	b.bids.Ascend(collect)
	b.asks.Ascend(collect)
	// Bids and asks were each collected in price order; normalize to
	// (tick, id) across both sides.
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmitTick != out[j].SubmitTick {
			return out[i].SubmitTick < out[j].SubmitTick
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out
}

// TopBids returns up to n aggregated price levels from the bid side,
// ordered by price descending.
func (b *sideBook) TopBids(n int) []PriceLevel {
	return topLevels(b.bids, n)
}

// TopAsks returns up to n aggregated price levels from the ask side,
// ordered by price ascending.
func (b *sideBook) TopAsks(n int) []PriceLevel {
	return topLevels(b.asks, n)
}

// topLevels walks a side in priority order and aggregates entries into at
// most n price levels.
func topLevels(tree *btree.BTreeG[bookEntry], n int) []PriceLevel {
	if n <= 0 {
		return nil
	}
	levels := make([]PriceLevel, 0, n)
	tree.Ascend(func(entry bookEntry) bool {
		if len(levels) > 0 && levels[len(levels)-1].Price == entry.Price {
			levels[len(levels)-1].TotalQuantity += entry.Order.RemainingQuantity
			levels[len(levels)-1].OrderCount++
			return true
		}
		if len(levels) >= n {
			return false
		}
		levels = append(levels, PriceLevel{
			Price:         entry.Price,
			TotalQuantity: entry.Order.RemainingQuantity,
			OrderCount:    1,
		})
		return true
	})
	return levels
}
