package inheritance

import (
	"math"
	"math/big"
)

// Fraction is an exact share of the estate. The zero value is 0. Fractions are
// immutable: every operation returns a new value.
type Fraction struct {
	r *big.Rat
}

var (
	zero = Fraction{}
	one  = NewFraction(1, 1)
)

// NewFraction returns num/den in lowest terms. den must not be zero.
func NewFraction(num, den int64) Fraction {
	return Fraction{r: big.NewRat(num, den)}
}

func (f Fraction) rat() *big.Rat {
	if f.r == nil {
		return new(big.Rat)
	}
	return f.r
}

// Rat returns a copy of the underlying rational.
func (f Fraction) Rat() *big.Rat {
	return new(big.Rat).Set(f.rat())
}

func (f Fraction) Add(g Fraction) Fraction {
	return Fraction{r: new(big.Rat).Add(f.rat(), g.rat())}
}

func (f Fraction) Sub(g Fraction) Fraction {
	return Fraction{r: new(big.Rat).Sub(f.rat(), g.rat())}
}

func (f Fraction) Mul(g Fraction) Fraction {
	return Fraction{r: new(big.Rat).Mul(f.rat(), g.rat())}
}

// Div returns f/g, or zero when g is zero.
func (f Fraction) Div(g Fraction) Fraction {
	if g.IsZero() {
		return zero
	}
	return Fraction{r: new(big.Rat).Quo(f.rat(), g.rat())}
}

// DivInt splits f into n equal parts; n <= 0 yields zero.
func (f Fraction) DivInt(n int) Fraction {
	if n <= 0 {
		return zero
	}
	return f.Div(NewFraction(int64(n), 1))
}

// Scale returns f * num/den.
func (f Fraction) Scale(num, den int64) Fraction {
	return f.Mul(NewFraction(num, den))
}

func (f Fraction) Cmp(g Fraction) int {
	return f.rat().Cmp(g.rat())
}

func (f Fraction) Equal(g Fraction) bool {
	return f.Cmp(g) == 0
}

func (f Fraction) IsZero() bool {
	return f.rat().Sign() == 0
}

func (f Fraction) Sign() int {
	return f.rat().Sign()
}

// Float64 returns the nearest float64 value.
func (f Fraction) Float64() float64 {
	v, _ := f.rat().Float64()
	return v
}

// Percent returns f as a percentage rounded to two decimal places.
func (f Fraction) Percent() float64 {
	return math.Round(f.Float64()*10000) / 100
}

// String renders the fraction as "5/12", or "1" for whole numbers.
func (f Fraction) String() string {
	return f.rat().RatString()
}

func (f Fraction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Fraction) UnmarshalText(text []byte) error {
	r, ok := new(big.Rat).SetString(string(text))
	if !ok {
		return ErrInvalidFraction
	}
	f.r = r
	return nil
}

func maxFraction(a, b Fraction) Fraction {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
