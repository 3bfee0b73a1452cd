package engine

import (
	"testing"

	"github.com/tickclear/tickclear/internal/domain"
)

func clearinghouseConfig() *domain.MarketConfig {
	return &domain.MarketConfig{
		ID:            "net",
		Kind:          domain.KindClearinghouse,
		BaseAsset:     10,
		QuoteAsset:    20,
		PriceScale:    100,
		ClearInterval: 5,
	}
}

func TestClearinghouse_UniformClearingPrice(t *testing.T) {
	p, err := newClearinghouseProvider(clearinghouseConfig())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	// Two crossing pairs with different ask limits. Every netted fill
	// executes at the marginal ask's limit, not at its own pair's.
	mustSubmit(t, p, limitOrder(1, 1, domain.OrderSideBid, 5, 130, 1))
	mustSubmit(t, p, limitOrder(2, 2, domain.OrderSideBid, 5, 120, 2))
	mustSubmit(t, p, limitOrder(3, 3, domain.OrderSideAsk, 5, 100, 3))
	mustSubmit(t, p, limitOrder(4, 4, domain.OrderSideAsk, 5, 110, 4))

	res := mustClear(t, p, 5)
	if len(res.Trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(res.Trades))
	}
	for _, tr := range res.Trades {
		if tr.Price != 110 {
			t.Errorf("trade %d price = %d, want uniform 110", tr.TradeID, tr.Price)
		}
	}
	if len(res.Quotes) != 1 || res.Quotes[0].Bid != 110 || res.Quotes[0].Ask != 110 {
		t.Errorf("clearing quote = %+v, want 110/110", res.Quotes)
	}
}

func TestClearinghouse_PeriodicLikeAuction(t *testing.T) {
	p, _ := newClearinghouseProvider(clearinghouseConfig())
	mustSubmit(t, p, limitOrder(1, 1, domain.OrderSideBid, 5, 130, 1))
	mustSubmit(t, p, limitOrder(2, 2, domain.OrderSideAsk, 5, 100, 2))

	// Early clear: nothing happens.
	res := mustClear(t, p, 3)
	if len(res.Trades) != 0 || res.NextDue != 5 {
		t.Fatalf("early clear: trades=%d next=%d, want 0/5", len(res.Trades), res.NextDue)
	}

	res = mustClear(t, p, 5)
	if len(res.Trades) != 1 {
		t.Fatalf("on-time clear: got %d trades, want 1", len(res.Trades))
	}
	if res.NextDue != 10 {
		t.Errorf("next due = %d, want 10", res.NextDue)
	}
}

func TestClearinghouse_NoCrossNoTrades(t *testing.T) {
	p, _ := newClearinghouseProvider(clearinghouseConfig())
	mustSubmit(t, p, limitOrder(1, 1, domain.OrderSideBid, 5, 90, 1))
	mustSubmit(t, p, limitOrder(2, 2, domain.OrderSideAsk, 5, 100, 2))

	res := mustClear(t, p, 5)
	if len(res.Trades) != 0 {
		t.Errorf("uncrossed book produced trades: %+v", res.Trades)
	}
	if len(res.Quotes) != 0 {
		t.Errorf("uncrossed book produced clearing quote: %+v", res.Quotes)
	}
}
