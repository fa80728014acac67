package inheritance

import "fmt"

type allocator struct {
	awl bool
}

// Option configures an Allocator.
type Option func(*allocator)

// WithAwl controls proportional reduction when fixed shares exceed the
// estate. It is enabled by default; when disabled the over-allocation is
// reported as is.
func WithAwl(enabled bool) Option {
	return func(a *allocator) {
		a.awl = enabled
	}
}

// New creates an Allocator implementing the Hanafi Fara'id and Asabah rules.
func New(opts ...Option) Allocator {
	a := &allocator{awl: true}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultAllocator = New()

// Calculate distributes an estate using the default options.
func Calculate(counts Counts) (Result, error) {
	return defaultAllocator.Calculate(counts)
}

func (a *allocator) Calculate(counts Counts) (Result, error) {
	if err := counts.Validate(); err != nil {
		return Result{}, fmt.Errorf("calculate: %w", err)
	}

	f := deriveFacts(counts)
	tiers := eligibleTiers(counts, f)
	shares := supersede(fixedShares(counts, f), tiers)

	nominal := zero
	for _, s := range shares {
		nominal = nominal.Add(s.Aggregate)
	}

	result := Result{NominalFixed: nominal}
	if a.awl && nominal.Cmp(one) > 0 {
		shares = applyAwl(shares, nominal)
		result.Awl = true
	}

	totalFixed := zero
	for _, s := range shares {
		totalFixed = totalFixed.Add(s.Aggregate)
	}
	result.TotalFixed = totalFixed
	result.Residue = maxFraction(zero, one.Sub(totalFixed))

	if result.Residue.Sign() > 0 {
		var residuary []Share
		if len(tiers) > 0 {
			residuary = distribute(result.Residue, tiers[0].claimants)
		}
		if len(residuary) > 0 {
			shares = append(shares, residuary...)
			result.ResiduaryTier = tiers[0].tier.name
		} else {
			result.Unallocated = result.Residue
		}
	}

	result.Shares = shares
	return result, nil
}

// supersede drops fixed shares held by heirs that are residuary in any
// eligible tier, so a category is never both fixed and residuary.
func supersede(shares []Share, tiers []tierMatch) []Share {
	residuary := make(map[Heir]struct{})
	for _, t := range tiers {
		for _, cl := range t.claimants {
			residuary[cl.heir] = struct{}{}
		}
	}

	kept := shares[:0]
	for _, s := range shares {
		if holdsAny(s, residuary) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

func holdsAny(s Share, heirs map[Heir]struct{}) bool {
	for _, h := range s.Heirs {
		if _, ok := heirs[h]; ok {
			return true
		}
	}
	return false
}

// applyAwl scales every fixed share by 1/total so they sum to the whole estate.
func applyAwl(shares []Share, total Fraction) []Share {
	scaled := make([]Share, len(shares))
	for i, s := range shares {
		s.Aggregate = s.Nominal.Div(total)
		s.Individual = s.Aggregate.DivInt(s.Count)
		scaled[i] = s
	}
	return scaled
}
