package domain

import "math"

// RenderedAmount is the display decomposition of an integer amount at a
// given scale: whole units, minor units, and sign. The decomposition is
// pure integer arithmetic; the engine never touches floating point.
type RenderedAmount struct {
	Whole int64
	Minor int64
	Scale int64
	Sign  int // 1, 0, or -1
}

// RenderAmount splits an integer amount of scaled units into whole and
// minor parts. Scale must be positive. Whole and Minor are both
// non-negative; the sign is carried separately so that -150 at scale 100
// renders as {1, 50, 100, -1} rather than {-1, -50}.
func RenderAmount(amount, scale int64) (RenderedAmount, error) {
	if scale <= 0 {
		return RenderedAmount{}, ErrInvalidArgument
	}
	if amount == math.MinInt64 {
		// |MinInt64| is not representable; the decomposition would wrap.
		return RenderedAmount{}, ErrOverflow
	}
	sign := 0
	abs := amount
	if amount > 0 {
		sign = 1
	} else if amount < 0 {
		sign = -1
		abs = -amount
	}
	return RenderedAmount{
		Whole: abs / scale,
		Minor: abs % scale,
		Scale: scale,
		Sign:  sign,
	}, nil
}

// ParseAmount recomposes an integer amount from its rendered parts. It is
// the exact inverse of RenderAmount for any representable amount, and
// returns ErrOverflow when whole*scale+minor does not fit in int64.
func ParseAmount(r RenderedAmount) (int64, error) {
	if r.Scale <= 0 || r.Whole < 0 || r.Minor < 0 || r.Minor >= r.Scale {
		return 0, ErrInvalidArgument
	}
	switch r.Sign {
	case -1, 0, 1:
	default:
		return 0, ErrInvalidArgument
	}
	abs, err := mulInt64(r.Whole, r.Scale)
	if err != nil {
		return 0, err
	}
	abs += r.Minor
	if abs < 0 {
		return 0, ErrOverflow
	}
	if r.Sign < 0 {
		return -abs, nil
	}
	if r.Sign == 0 && abs != 0 {
		return 0, ErrInvalidArgument
	}
	return abs, nil
}

// mulInt64 multiplies two non-negative int64 values, reporting ErrOverflow
// instead of wrapping. The same guarded-multiply pattern backs every
// price*quantity computation in the engine.
func mulInt64(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrInvalidArgument
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/b != a {
		return 0, ErrOverflow
	}
	return p, nil
}

// MulDiv computes a*b/div with an overflow check on the intermediate
// product. It backs quote-leg sizing (price × base quantity / price scale).
func MulDiv(a, b, div int64) (int64, error) {
	if div <= 0 {
		return 0, ErrInvalidArgument
	}
	p, err := mulInt64(a, b)
	if err != nil {
		return 0, err
	}
	return p / div, nil
}
