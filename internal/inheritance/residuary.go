package inheritance

// claimant is one heir category inside a residuary group. units is the
// weight of a single member: 2 for a male sharing with females, else 1.
type claimant struct {
	heir  Heir
	count int
	units int
}

// residuaryTier is one rung of the Asabah ladder. The first tier with any
// claimants takes the whole residue and blocks every tier below it.
type residuaryTier struct {
	name      string
	claimants func(c Counts, f facts) []claimant
}

var residuaryTiers = []residuaryTier{
	{name: "descendants", claimants: descendantClaimants},
	{name: "father", claimants: fatherClaimants},
	{name: "grandfather", claimants: grandfatherClaimants},
	{name: "full siblings", claimants: fullSiblingClaimants},
	{name: "paternal siblings", claimants: paternalSiblingClaimants},
	agnateTier("full nephews", FullNephews),
	agnateTier("paternal nephews", PaternalNephews),
	agnateTier("sons of full nephews", FullNephewSons),
	agnateTier("sons of paternal nephews", PaternalNephewSons),
	agnateTier("full paternal uncles", FullPaternalUncles),
	agnateTier("paternal half-uncles", PaternalPaternalUncles),
	agnateTier("full cousins", FullCousins),
	agnateTier("paternal cousins", PaternalCousins),
	agnateTier("sons of full cousins", FullCousinSons),
	agnateTier("sons of paternal cousins", PaternalCousinSons),
	agnateTier("grandsons of full cousins", FullCousinGrandsons),
	agnateTier("grandsons of paternal cousins", PaternalCousinGrandsons),
}

// tierMatch is a non-empty tier together with its claimants.
type tierMatch struct {
	tier      residuaryTier
	claimants []claimant
}

// eligibleTiers evaluates the ladder top-down and returns every non-empty tier
// in priority order.
func eligibleTiers(c Counts, f facts) []tierMatch {
	var matches []tierMatch
	for _, tier := range residuaryTiers {
		if cl := tier.claimants(c, f); len(cl) > 0 {
			matches = append(matches, tierMatch{tier: tier, claimants: cl})
		}
	}
	return matches
}

func descendantClaimants(c Counts, _ facts) []claimant {
	if c.Get(Sons) > 0 {
		return maleWithFemale(c, Sons, Daughters)
	}
	if c.Get(Grandsons) > 0 {
		return maleWithFemale(c, Grandsons, Granddaughters)
	}
	return nil
}

func fatherClaimants(c Counts, f facts) []claimant {
	if c.Get(Father) == 0 || f.hasMaleDescendants {
		return nil
	}
	return []claimant{{heir: Father, count: 1, units: 1}}
}

func grandfatherClaimants(c Counts, f facts) []claimant {
	if c.Get(Grandfather) == 0 || c.Get(Father) > 0 || f.hasMaleDescendants {
		return nil
	}
	return []claimant{{heir: Grandfather, count: 1, units: 1}}
}

func fullSiblingClaimants(c Counts, f facts) []claimant {
	if c.Get(FullBrothers) == 0 || !agnatesEligible(c, f) {
		return nil
	}
	return maleWithFemale(c, FullBrothers, FullSisters)
}

// Paternal brothers mirror full brothers and are blocked by them.
func paternalSiblingClaimants(c Counts, f facts) []claimant {
	if c.Get(PaternalBrothers) == 0 || c.Get(FullBrothers) > 0 || !agnatesEligible(c, f) {
		return nil
	}
	return maleWithFemale(c, PaternalBrothers, PaternalSisters)
}

// agnateTier builds a tier for an all-male collateral category.
func agnateTier(name string, h Heir) residuaryTier {
	return residuaryTier{
		name: name,
		claimants: func(c Counts, f facts) []claimant {
			n := c.Get(h)
			if n == 0 || !agnatesEligible(c, f) {
				return nil
			}
			return []claimant{{heir: h, count: n, units: 1}}
		},
	}
}

// Collaterals inherit only when neither the father nor a male descendant survives.
func agnatesEligible(c Counts, f facts) bool {
	return c.Get(Father) == 0 && !f.hasMaleDescendants
}

// maleWithFemale pairs a male category with its female counterpart at 2:1.
// The male category must be present.
func maleWithFemale(c Counts, male, female Heir) []claimant {
	m, w := c.Get(male), c.Get(female)
	if w == 0 {
		return []claimant{{heir: male, count: m, units: 1}}
	}
	return []claimant{
		{heir: male, count: m, units: 2},
		{heir: female, count: w, units: 1},
	}
}

// distribute splits residue across the claimants in proportion to their units.
func distribute(residue Fraction, claimants []claimant) []Share {
	totalUnits := 0
	for _, cl := range claimants {
		totalUnits += cl.count * cl.units
	}
	if totalUnits == 0 {
		return nil
	}

	shares := make([]Share, 0, len(claimants))
	for _, cl := range claimants {
		aggregate := residue.Scale(int64(cl.count*cl.units), int64(totalUnits))
		shares = append(shares, Share{
			Heirs:      []Heir{cl.heir},
			Label:      cl.heir.Label(cl.count),
			Count:      cl.count,
			Kind:       KindResiduary,
			Aggregate:  aggregate,
			Individual: aggregate.DivInt(cl.count),
		})
	}
	return shares
}
