package inheritance

import "strings"

var (
	half      = NewFraction(1, 2)
	third     = NewFraction(1, 3)
	twoThirds = NewFraction(2, 3)
	quarter   = NewFraction(1, 4)
	sixth     = NewFraction(1, 6)
	eighth    = NewFraction(1, 8)
)

// facts are the predicates every rule consults. They are derived once per
// calculation.
type facts struct {
	hasDescendants      bool
	hasMaleDescendants  bool
	hasMultipleSiblings bool
}

func deriveFacts(c Counts) facts {
	return facts{
		hasDescendants: c.Get(Sons) > 0 || c.Get(Daughters) > 0 ||
			c.Get(Grandsons) > 0 || c.Get(Granddaughters) > 0,
		hasMaleDescendants: c.Get(Sons) > 0 || c.Get(Grandsons) > 0,
		hasMultipleSiblings: c.Get(FullBrothers)+c.Get(FullSisters)+
			c.Get(PaternalBrothers)+c.Get(PaternalSisters) >= 2,
	}
}

// fixedRule yields at most one fixed share. Rules are independent of each
// other; supersession by residuary heirs happens afterwards.
type fixedRule struct {
	name  string
	apply func(c Counts, f facts) (Share, bool)
}

var fixedRules = []fixedRule{
	{name: "husband", apply: husbandShare},
	{name: "wives", apply: wivesShare},
	{name: "mother", apply: motherShare},
	{name: "father", apply: fatherShare},
	{name: "grandfather", apply: grandfatherShare},
	{name: "grandmothers", apply: grandmothersShare},
	{name: "daughters", apply: daughtersShare},
	{name: "granddaughters", apply: granddaughtersShare},
	{name: "full sisters", apply: fullSistersShare},
	{name: "paternal sisters", apply: paternalSistersShare},
	{name: "maternal siblings", apply: maternalSiblingsShare},
}

func fixedShares(c Counts, f facts) []Share {
	shares := make([]Share, 0, len(fixedRules))
	for _, rule := range fixedRules {
		if s, ok := rule.apply(c, f); ok {
			shares = append(shares, s)
		}
	}
	return shares
}

func fixed(label string, count int, nominal Fraction, heirs ...Heir) Share {
	return Share{
		Heirs:      heirs,
		Label:      label,
		Count:      count,
		Kind:       KindFixed,
		Nominal:    nominal,
		Aggregate:  nominal,
		Individual: nominal.DivInt(count),
	}
}

func husbandShare(c Counts, f facts) (Share, bool) {
	if c.Get(Husband) == 0 {
		return Share{}, false
	}
	if f.hasDescendants {
		return fixed(Husband.Label(1), 1, quarter, Husband), true
	}
	return fixed(Husband.Label(1), 1, half, Husband), true
}

// Wives share one pooled fraction split equally.
func wivesShare(c Counts, f facts) (Share, bool) {
	n := c.Get(Wives)
	if n == 0 {
		return Share{}, false
	}
	if f.hasDescendants {
		return fixed(Wives.Label(n), n, eighth, Wives), true
	}
	return fixed(Wives.Label(n), n, quarter, Wives), true
}

func motherShare(c Counts, f facts) (Share, bool) {
	if c.Get(Mother) == 0 {
		return Share{}, false
	}
	if f.hasDescendants || f.hasMultipleSiblings {
		return fixed(Mother.Label(1), 1, sixth, Mother), true
	}
	return fixed(Mother.Label(1), 1, third, Mother), true
}

// Without male descendants the father is residuary only.
func fatherShare(c Counts, f facts) (Share, bool) {
	if c.Get(Father) == 0 || !f.hasMaleDescendants {
		return Share{}, false
	}
	s := fixed(Father.Label(1), 1, sixth, Father)
	s.MayTakeResidue = true
	return s, true
}

func grandfatherShare(c Counts, f facts) (Share, bool) {
	if c.Get(Grandfather) == 0 || c.Get(Father) > 0 || !f.hasMaleDescendants {
		return Share{}, false
	}
	s := fixed(Grandfather.Label(1), 1, sixth, Grandfather)
	s.MayTakeResidue = true
	return s, true
}

// Grandmothers present together split one sixth.
func grandmothersShare(c Counts, _ facts) (Share, bool) {
	if c.Get(Mother) > 0 {
		return Share{}, false
	}
	var heirs []Heir
	var names []string
	total := 0
	for _, h := range []Heir{PaternalGrandmother, MaternalGrandmother} {
		if n := c.Get(h); n > 0 {
			heirs = append(heirs, h)
			names = append(names, h.Label(n))
			total += n
		}
	}
	if total == 0 {
		return Share{}, false
	}
	return fixed(strings.Join(names, " & "), total, sixth, heirs...), true
}

func daughtersShare(c Counts, _ facts) (Share, bool) {
	n := c.Get(Daughters)
	if n == 0 || c.Get(Sons) > 0 {
		return Share{}, false
	}
	return femaleLineShare(Daughters, n), true
}

func granddaughtersShare(c Counts, _ facts) (Share, bool) {
	n := c.Get(Granddaughters)
	if n == 0 || c.Get(Sons) > 0 || c.Get(Daughters) > 0 || c.Get(Grandsons) > 0 {
		return Share{}, false
	}
	return femaleLineShare(Granddaughters, n), true
}

func fullSistersShare(c Counts, _ facts) (Share, bool) {
	n := c.Get(FullSisters)
	if n == 0 || c.Get(Father) > 0 || c.Get(Sons) > 0 || c.Get(Grandsons) > 0 ||
		c.Get(FullBrothers) > 0 {
		return Share{}, false
	}
	return femaleLineShare(FullSisters, n), true
}

func paternalSistersShare(c Counts, _ facts) (Share, bool) {
	n := c.Get(PaternalSisters)
	if n == 0 || c.Get(Father) > 0 || c.Get(Sons) > 0 || c.Get(Grandsons) > 0 ||
		c.Get(FullBrothers) > 0 || c.Get(FullSisters) > 0 || c.Get(PaternalBrothers) > 0 {
		return Share{}, false
	}
	return femaleLineShare(PaternalSisters, n), true
}

// femaleLineShare is one half for a single heir and two thirds pooled for more.
func femaleLineShare(h Heir, n int) Share {
	if n == 1 {
		return fixed(h.Label(1), 1, half, h)
	}
	return fixed(h.Label(n), n, twoThirds, h)
}

// Uterine siblings are pooled regardless of gender.
func maternalSiblingsShare(c Counts, f facts) (Share, bool) {
	brothers, sisters := c.Get(MaternalBrothers), c.Get(MaternalSisters)
	total := brothers + sisters
	if total == 0 || f.hasDescendants || c.Get(Father) > 0 || c.Get(Grandfather) > 0 {
		return Share{}, false
	}
	var heirs []Heir
	if brothers > 0 {
		heirs = append(heirs, MaternalBrothers)
	}
	if sisters > 0 {
		heirs = append(heirs, MaternalSisters)
	}
	if total == 1 {
		return fixed(heirs[0].Label(1), 1, sixth, heirs...), true
	}
	return fixed("Maternal Siblings", total, third, heirs...), true
}
