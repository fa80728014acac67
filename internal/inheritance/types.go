package inheritance

import "github.com/drhimam/islamic-will-creator/internal/will"

// ShareKind distinguishes Quranic fixed shares from residuary shares.
type ShareKind string

const (
	KindFixed     ShareKind = "fixed"
	KindResiduary ShareKind = "residuary"
)

// Share is one line of a distribution. Aggregate is the fraction of the estate
// allocated to the whole group and Individual is Aggregate divided by Count.
// Nominal is the Quranic fraction for fixed shares (before any awl scaling)
// and zero for residuary shares.
type Share struct {
	Heirs          []Heir
	Label          string
	Count          int
	Kind           ShareKind
	Nominal        Fraction
	Aggregate      Fraction
	Individual     Fraction
	MayTakeResidue bool
}

// Includes reports whether h is one of the share's heir categories.
func (s Share) Includes(h Heir) bool {
	for _, member := range s.Heirs {
		if member == h {
			return true
		}
	}
	return false
}

// Result is the complete distribution for one estate. Shares lists fixed
// shares in rule order followed by the residuary group, if any.
type Result struct {
	Shares []Share
	// TotalFixed is the sum of fixed aggregates actually allocated.
	TotalFixed Fraction
	// NominalFixed is the sum of fixed shares before awl scaling.
	NominalFixed Fraction
	// Residue is max(0, 1 - TotalFixed).
	Residue Fraction
	// Unallocated is the part of Residue no residuary heir could claim.
	Unallocated Fraction
	// ResiduaryTier names the tier that took the residue.
	ResiduaryTier string
	// Awl is set when fixed shares exceeded the estate and were scaled down.
	Awl bool
}

// Total sums every share's aggregate.
func (r Result) Total() Fraction {
	total := zero
	for _, s := range r.Shares {
		total = total.Add(s.Aggregate)
	}
	return total
}

// HasUnallocatedResidue reports residue that no heir received.
func (r Result) HasUnallocatedResidue() bool {
	return r.Unallocated.Sign() > 0
}

// IsEmpty reports whether no heir qualified for anything.
func (r Result) IsEmpty() bool {
	return len(r.Shares) == 0
}

// Share returns the line containing h, if any.
func (r Result) Share(h Heir) (Share, bool) {
	for _, s := range r.Shares {
		if s.Includes(h) {
			return s, true
		}
	}
	return Share{}, false
}

// Allocator describes the behaviour required from an inheritance calculator.
type Allocator interface {
	Calculate(counts Counts) (Result, error)
	CountsFromWill(rec will.Record) (Counts, error)
}
