package inheritance

import (
	"fmt"

	"github.com/drhimam/islamic-will-creator/internal/will"
)

// CountsFromWill derives relative counts with the default allocator.
func CountsFromWill(rec will.Record) (Counts, error) {
	return defaultAllocator.CountsFromWill(rec)
}

// CountsFromWill maps a will's family information onto heir counts. A married
// decedent with a named spouse leaves a wife (male decedent) or a husband
// (female decedent), so gender is required only then. Children are split by
// recorded gender and a parent counts only when explicitly marked alive.
func (a *allocator) CountsFromWill(rec will.Record) (Counts, error) {
	family := rec.FamilyInfo
	m := make(map[Heir]int)

	if family.IsMarried() {
		switch rec.PersonalInfo.Gender {
		case will.GenderMale:
			m[Wives] = 1
		case will.GenderFemale:
			m[Husband] = 1
		default:
			return Counts{}, ErrMissingGender
		}
	}

	for _, child := range family.Children {
		switch child.Gender {
		case will.GenderMale:
			m[Sons]++
		case will.GenderFemale:
			m[Daughters]++
		}
	}

	if family.FatherAlive == will.StatusAlive {
		m[Father] = 1
	}
	if family.MotherAlive == will.StatusAlive {
		m[Mother] = 1
	}

	counts, err := NewCounts(m)
	if err != nil {
		return Counts{}, fmt.Errorf("derive counts: %w", err)
	}
	return counts, nil
}
