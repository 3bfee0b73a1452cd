package domain

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestProperty_AmountRenderRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Int64Range(math.MinInt64+1, math.MaxInt64).Draw(t, "amount")
		scale := rapid.Int64Range(1, 1_000_000).Draw(t, "scale")

		r, err := RenderAmount(amount, scale)
		if err != nil {
			t.Fatalf("RenderAmount(%d, %d): %v", amount, scale, err)
		}
		got, err := ParseAmount(r)
		if err != nil {
			t.Fatalf("ParseAmount(%+v): %v", r, err)
		}
		if got != amount {
			t.Fatalf("round-trip failed: %d → %+v → %d", amount, r, got)
		}
	})
}

func TestProperty_RenderedPartsWellFormed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amount := rapid.Int64Range(math.MinInt64+1, math.MaxInt64).Draw(t, "amount")
		scale := rapid.Int64Range(1, 1_000_000).Draw(t, "scale")

		r, err := RenderAmount(amount, scale)
		if err != nil {
			t.Fatalf("RenderAmount(%d, %d): %v", amount, scale, err)
		}
		if r.Whole < 0 || r.Minor < 0 || r.Minor >= scale {
			t.Fatalf("malformed decomposition %+v for amount %d", r, amount)
		}
		switch {
		case amount > 0 && r.Sign != 1:
			t.Fatalf("amount %d rendered with sign %d", amount, r.Sign)
		case amount < 0 && r.Sign != -1:
			t.Fatalf("amount %d rendered with sign %d", amount, r.Sign)
		case amount == 0 && r.Sign != 0:
			t.Fatalf("zero rendered with sign %d", r.Sign)
		}
	})
}
