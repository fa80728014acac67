// Package estate values a will's estate: assets less debts, charitable
// bequests deducted up to the one-third limit, and the monetary amount of
// each inheritance share.
package estate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/drhimam/islamic-will-creator/internal/inheritance"
	"github.com/drhimam/islamic-will-creator/internal/will"
)

var (
	// ErrInvalidAmount is returned for monetary values that are not
	// non-negative decimal numbers.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrBequestLimit is returned when charitable bequests exceed one third
	// of the estate.
	ErrBequestLimit = errors.New("charitable bequests exceed one third of the estate")
)

// MaxBequestPercent is the largest share of the net estate that may be
// bequeathed outside the heirs.
var MaxBequestPercent = decimal.RequireFromString("33.33")

var hundred = decimal.NewFromInt(100)

// Breakdown is the valuation of an estate before division among heirs.
type Breakdown struct {
	TotalAssets    decimal.Decimal `json:"totalAssets"`
	TotalDebts     decimal.Decimal `json:"totalDebts"`
	NetEstate      decimal.Decimal `json:"netEstate"`
	BequestPercent decimal.Decimal `json:"bequestPercent"`
	Bequests       decimal.Decimal `json:"bequests"`
	Distributable  decimal.Decimal `json:"distributable"`
}

// FromWill values the estate described by rec. Blank amounts count as zero.
// The net estate is floored at zero when debts exceed assets.
func FromWill(rec will.Record) (Breakdown, error) {
	var (
		b    Breakdown
		errs error
	)

	add := func(field, raw string, total *decimal.Decimal) {
		v, err := ParseAmount(raw)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", field, err))
			return
		}
		*total = total.Add(v)
	}

	for i, c := range rec.Assets.Cash {
		add(fmt.Sprintf("assets.cash[%d]", i), c.Amount, &b.TotalAssets)
	}
	for i, p := range rec.Assets.Property {
		add(fmt.Sprintf("assets.property[%d]", i), p.Value, &b.TotalAssets)
	}
	for i, o := range rec.Assets.Other {
		add(fmt.Sprintf("assets.other[%d]", i), o.Value, &b.TotalAssets)
	}
	for i, d := range rec.Debts {
		add(fmt.Sprintf("debts[%d]", i), d.Amount, &b.TotalDebts)
	}
	for i, c := range rec.Charities {
		add(fmt.Sprintf("charities[%d]", i), c.Percent, &b.BequestPercent)
	}
	if errs != nil {
		return Breakdown{}, errs
	}

	if b.BequestPercent.GreaterThan(MaxBequestPercent) {
		return Breakdown{}, fmt.Errorf("%w: %s%%", ErrBequestLimit, b.BequestPercent.String())
	}

	b.NetEstate = decimal.Max(decimal.Zero, b.TotalAssets.Sub(b.TotalDebts))
	b.Bequests = b.NetEstate.Mul(b.BequestPercent).Div(hundred).Round(2)
	b.Distributable = b.NetEstate.Sub(b.Bequests)
	return b, nil
}

// ParseAmount parses a monetary value as entered on the form. Thousands
// separators are accepted; blank input is zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, raw)
	}
	return v, nil
}

// Amount returns value * f rounded to cents.
func Amount(value decimal.Decimal, f inheritance.Fraction) decimal.Decimal {
	r := f.Rat()
	num := decimal.NewFromBigInt(r.Num(), 0)
	den := decimal.NewFromBigInt(r.Denom(), 0)
	return value.Mul(num).Div(den).Round(2)
}
