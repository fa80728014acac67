// Package report turns an inheritance result into the presentation form shared
// by the HTTP API and the CLI: fraction strings, percentages rounded to two
// decimals and, when an estate value is known, monetary amounts.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/drhimam/islamic-will-creator/internal/estate"
	"github.com/drhimam/islamic-will-creator/internal/inheritance"
)

// ResidueFraction is shown in place of a fraction for residuary shares.
const ResidueFraction = "residue"

// Line is one heir group in a report.
type Line struct {
	Heirs                []inheritance.Heir    `json:"heirs"`
	Label                string                `json:"label"`
	Count                int                   `json:"count"`
	Kind                 inheritance.ShareKind `json:"kind"`
	Fraction             string                `json:"fraction"`
	Share                string                `json:"share"`
	Percentage           float64               `json:"percentage"`
	IndividualShare      string                `json:"individualShare"`
	IndividualPercentage float64               `json:"individualPercentage"`
	MayTakeResidue       bool                  `json:"mayTakeResidue,omitempty"`
	Amount               *decimal.Decimal      `json:"amount,omitempty"`
	IndividualAmount     *decimal.Decimal      `json:"individualAmount,omitempty"`
}

// Report is a presentable distribution.
type Report struct {
	Shares                []Line           `json:"shares"`
	TotalFixedShare       string           `json:"totalFixedShare"`
	TotalFixedPercentage  float64          `json:"totalFixedPercentage"`
	Residue               string           `json:"residue"`
	ResiduePercentage     float64          `json:"residuePercentage"`
	Unallocated           string           `json:"unallocated"`
	UnallocatedPercentage float64          `json:"unallocatedPercentage"`
	HasUnallocatedResidue bool             `json:"hasUnallocatedResidue"`
	ResiduaryTier         string           `json:"residuaryTier,omitempty"`
	Awl                   bool             `json:"awl"`
	NominalFixedShare     string           `json:"nominalFixedShare,omitempty"`
	NoHeirs               bool             `json:"noHeirs"`
	EstateValue           *decimal.Decimal `json:"estateValue,omitempty"`
	UnallocatedAmount     *decimal.Decimal `json:"unallocatedAmount,omitempty"`
}

// Build renders result. estateValue may be nil, in which case no amounts are
// reported.
func Build(result inheritance.Result, estateValue *decimal.Decimal) Report {
	r := Report{
		Shares:                make([]Line, 0, len(result.Shares)),
		TotalFixedShare:       result.TotalFixed.String(),
		TotalFixedPercentage:  result.TotalFixed.Percent(),
		Residue:               result.Residue.String(),
		ResiduePercentage:     result.Residue.Percent(),
		Unallocated:           result.Unallocated.String(),
		UnallocatedPercentage: result.Unallocated.Percent(),
		HasUnallocatedResidue: result.HasUnallocatedResidue(),
		ResiduaryTier:         result.ResiduaryTier,
		Awl:                   result.Awl,
		NoHeirs:               result.IsEmpty(),
		EstateValue:           estateValue,
	}
	if result.Awl {
		r.NominalFixedShare = result.NominalFixed.String()
	}

	for _, s := range result.Shares {
		line := Line{
			Heirs:                s.Heirs,
			Label:                s.Label,
			Count:                s.Count,
			Kind:                 s.Kind,
			Fraction:             ResidueFraction,
			Share:                s.Aggregate.String(),
			Percentage:           s.Aggregate.Percent(),
			IndividualShare:      s.Individual.String(),
			IndividualPercentage: s.Individual.Percent(),
			MayTakeResidue:       s.MayTakeResidue,
		}
		if s.Kind == inheritance.KindFixed {
			line.Fraction = s.Nominal.String()
		}
		if estateValue != nil {
			line.Amount = amount(*estateValue, s.Aggregate)
			line.IndividualAmount = amount(*estateValue, s.Individual)
		}
		r.Shares = append(r.Shares, line)
	}

	if estateValue != nil {
		r.UnallocatedAmount = amount(*estateValue, result.Unallocated)
	}
	return r
}

func amount(value decimal.Decimal, f inheritance.Fraction) *decimal.Decimal {
	v := estate.Amount(value, f)
	return &v
}
