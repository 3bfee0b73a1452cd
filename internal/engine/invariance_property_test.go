package engine

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/tickclear/tickclear/internal/domain"
)

// tradeKey is the observable identity of a trade for comparing clear
// outcomes across runs.
type tradeKey struct {
	buy, sell  uint64
	base       int64
	quote      int64
	price      int64
	tick, next domain.Tick
}

func keysOf(res *ClearResult) []tradeKey {
	keys := make([]tradeKey, 0, len(res.Trades))
	for _, t := range res.Trades {
		keys = append(keys, tradeKey{
			buy: t.BuyOrderID, sell: t.SellOrderID,
			base: t.QuantityBase, quote: t.QuantityQuote,
			price: t.Price, tick: t.ExecutedTick, next: res.NextDue,
		})
	}
	return keys
}

// genOrderSet draws a fixed set of exchange orders with distinct ids.
// Small value ranges force price and tick collisions so the id tie-break
// actually gets exercised.
func genOrderSet(t *rapid.T) []*domain.Order {
	n := rapid.IntRange(2, 24).Draw(t, "numOrders")
	orders := make([]*domain.Order, 0, n)
	for i := 0; i < n; i++ {
		side := domain.OrderSideBid
		if rapid.Bool().Draw(t, fmt.Sprintf("ask-%d", i)) {
			side = domain.OrderSideAsk
		}
		orders = append(orders, &domain.Order{
			OrderID:    uint64(i + 1),
			AccountID:  uint64(rapid.IntRange(1, 4).Draw(t, fmt.Sprintf("account-%d", i))),
			SubmitTick: domain.Tick(rapid.IntRange(1, 6).Draw(t, fmt.Sprintf("tick-%d", i))),
			TIF:        domain.TIFGoodTillCancelled,
			Side:       side,
			Quantity:   int64(rapid.IntRange(1, 20).Draw(t, fmt.Sprintf("qty-%d", i))),
			Price:      int64(rapid.IntRange(90, 110).Draw(t, fmt.Sprintf("price-%d", i))),
		})
	}
	return orders
}

// clone produces fresh order values so each run mutates its own copies.
func clone(orders []*domain.Order) []*domain.Order {
	out := make([]*domain.Order, len(orders))
	for i, o := range orders {
		c := *o
		out[i] = &c
	}
	return out
}

func TestProperty_SubmissionOrderInvariance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orders := genOrderSet(t)
		// Draw a permutation of the submission sequence via Fisher-Yates
		// with drawn swap indices.
		perm := seq(len(orders))
		for i := len(perm) - 1; i > 0; i-- {
			j := rapid.IntRange(0, i).Draw(t, fmt.Sprintf("swap-%d", i))
			perm[i], perm[j] = perm[j], perm[i]
		}

		run := func(indices []int) []tradeKey {
			p, err := newOrderBookProvider(orderBookConfig())
			if err != nil {
				t.Fatalf("new provider: %v", err)
			}
			copies := clone(orders)
			for _, idx := range indices {
				if _, err := p.SubmitOrder(copies[idx]); err != nil {
					t.Fatalf("submit: %v", err)
				}
			}
			res, err := p.Clear(20)
			if err != nil {
				t.Fatalf("clear: %v", err)
			}
			return keysOf(res)
		}

		baseline := run(seq(len(orders)))
		permuted := run(perm)

		if len(baseline) != len(permuted) {
			t.Fatalf("trade count differs: %d vs %d", len(baseline), len(permuted))
		}
		for i := range baseline {
			if baseline[i] != permuted[i] {
				t.Fatalf("trade %d differs:\nbaseline: %+v\npermuted: %+v", i, baseline[i], permuted[i])
			}
		}
	})
}

func TestProperty_ClearNeverCreatesQuantity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		orders := genOrderSet(t)
		p, err := newOrderBookProvider(orderBookConfig())
		if err != nil {
			t.Fatalf("new provider: %v", err)
		}
		var submitted int64
		for _, o := range clone(orders) {
			submitted += o.Quantity
			if _, err := p.SubmitOrder(o); err != nil {
				t.Fatalf("submit: %v", err)
			}
		}
		res, err := p.Clear(20)
		if err != nil {
			t.Fatalf("clear: %v", err)
		}
		var filled int64
		for _, tr := range res.Trades {
			if tr.QuantityBase <= 0 {
				t.Fatalf("non-positive fill: %+v", tr)
			}
			// Each fill consumes quantity from both a bid and an ask.
			filled += 2 * tr.QuantityBase
		}
		if filled > submitted {
			t.Fatalf("cleared %d units from %d submitted", filled, submitted)
		}
	})
}

// seq returns [0, 1, …, n-1].
func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
