package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/drhimam/islamic-will-creator/internal/inheritance"
)

func mustCalculate(t *testing.T, m map[inheritance.Heir]int) inheritance.Result {
	t.Helper()
	res, err := inheritance.Calculate(inheritance.MustCounts(m))
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	return res
}

func TestBuildWithoutEstateValue(t *testing.T) {
	t.Parallel()

	res := mustCalculate(t, map[inheritance.Heir]int{
		inheritance.Wives:     1,
		inheritance.Sons:      1,
		inheritance.Daughters: 1,
	})
	got := Build(res, nil)

	want := []Line{
		{
			Heirs:                []inheritance.Heir{inheritance.Wives},
			Label:                "Wife",
			Count:                1,
			Kind:                 inheritance.KindFixed,
			Fraction:             "1/8",
			Share:                "1/8",
			Percentage:           12.5,
			IndividualShare:      "1/8",
			IndividualPercentage: 12.5,
		},
		{
			Heirs:                []inheritance.Heir{inheritance.Sons},
			Label:                "Son",
			Count:                1,
			Kind:                 inheritance.KindResiduary,
			Fraction:             ResidueFraction,
			Share:                "7/12",
			Percentage:           58.33,
			IndividualShare:      "7/12",
			IndividualPercentage: 58.33,
		},
		{
			Heirs:                []inheritance.Heir{inheritance.Daughters},
			Label:                "Daughter",
			Count:                1,
			Kind:                 inheritance.KindResiduary,
			Fraction:             ResidueFraction,
			Share:                "7/24",
			Percentage:           29.17,
			IndividualShare:      "7/24",
			IndividualPercentage: 29.17,
		},
	}
	if diff := cmp.Diff(want, got.Shares); diff != "" {
		t.Fatalf("shares mismatch (-want +got):\n%s", diff)
	}
	if got.TotalFixedShare != "1/8" || got.Residue != "7/8" || got.ResiduaryTier != "descendants" {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.HasUnallocatedResidue || got.NoHeirs || got.EstateValue != nil {
		t.Fatalf("unexpected flags: %+v", got)
	}
}

func TestBuildWithEstateValue(t *testing.T) {
	t.Parallel()

	res := mustCalculate(t, map[inheritance.Heir]int{inheritance.Husband: 1, inheritance.Daughters: 1})
	value := decimal.NewFromInt(120000)
	got := Build(res, &value)

	if len(got.Shares) != 2 {
		t.Fatalf("expected 2 shares, got %d", len(got.Shares))
	}
	wantAmounts := []string{"30000", "60000"}
	for i, line := range got.Shares {
		if line.Amount == nil || !line.Amount.Equal(decimal.RequireFromString(wantAmounts[i])) {
			t.Fatalf("line %d: expected amount %s, got %v", i, wantAmounts[i], line.Amount)
		}
	}
	if !got.HasUnallocatedResidue || got.Unallocated != "1/4" {
		t.Fatalf("expected 1/4 unallocated, got %+v", got)
	}
	if got.UnallocatedAmount == nil || !got.UnallocatedAmount.Equal(decimal.NewFromInt(30000)) {
		t.Fatalf("expected 30000 unallocated, got %v", got.UnallocatedAmount)
	}
}

func TestBuildEmptyResult(t *testing.T) {
	t.Parallel()

	got := Build(mustCalculate(t, nil), nil)
	if !got.NoHeirs || len(got.Shares) != 0 {
		t.Fatalf("expected no heirs, got %+v", got)
	}
	if got.Unallocated != "1" || got.UnallocatedPercentage != 100 {
		t.Fatalf("expected whole estate unallocated, got %+v", got)
	}
}

func TestBuildAwlReportsNominalTotal(t *testing.T) {
	t.Parallel()

	res := mustCalculate(t, map[inheritance.Heir]int{
		inheritance.Husband:     1,
		inheritance.FullSisters: 2,
	})
	got := Build(res, nil)
	if !got.Awl || got.NominalFixedShare != "7/6" || got.TotalFixedShare != "1" {
		t.Fatalf("expected awl from 7/6, got %+v", got)
	}
	if got.Shares[0].Fraction != "1/2" || got.Shares[0].Share != "3/7" {
		t.Fatalf("expected husband nominal 1/2 scaled to 3/7, got %+v", got.Shares[0])
	}
}
