package inheritance

import (
	"fmt"
	"strings"
)

// Heir identifies a category of surviving relatives. The identifiers double as
// the wire keys used by the API and the CLI.
type Heir string

const (
	Husband                 Heir = "husband"
	Wives                   Heir = "wives"
	Sons                    Heir = "sons"
	Daughters               Heir = "daughters"
	Grandsons               Heir = "grandsons"
	Granddaughters          Heir = "granddaughters"
	Father                  Heir = "father"
	Mother                  Heir = "mother"
	Grandfather             Heir = "grandfather"
	PaternalGrandmother     Heir = "paternal_grandmother"
	MaternalGrandmother     Heir = "maternal_grandmother"
	FullBrothers            Heir = "full_brothers"
	FullSisters             Heir = "full_sisters"
	PaternalBrothers        Heir = "paternal_brothers"
	PaternalSisters         Heir = "paternal_sisters"
	MaternalBrothers        Heir = "maternal_brothers"
	MaternalSisters         Heir = "maternal_sisters"
	FullNephews             Heir = "full_nephews"
	PaternalNephews         Heir = "paternal_nephews"
	FullNephewSons          Heir = "full_nephew_sons"
	PaternalNephewSons      Heir = "paternal_nephew_sons"
	FullPaternalUncles      Heir = "full_paternal_uncles"
	PaternalPaternalUncles  Heir = "paternal_paternal_uncles"
	FullCousins             Heir = "full_cousins"
	PaternalCousins         Heir = "paternal_cousins"
	FullCousinSons          Heir = "full_cousin_sons"
	PaternalCousinSons      Heir = "paternal_cousin_sons"
	FullCousinGrandsons     Heir = "full_cousin_grandsons"
	PaternalCousinGrandsons Heir = "paternal_cousin_grandsons"
)

// HeirInfo describes an heir category for display and validation.
// Max is the largest permitted count; zero means the general MaxCount applies.
type HeirInfo struct {
	Heir     Heir   `json:"id"`
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
	Male     bool   `json:"male"`
	Max      int    `json:"max,omitempty"`
}

var catalogue = [...]HeirInfo{
	{Heir: Husband, Singular: "Husband", Plural: "Husband", Male: true, Max: 1},
	{Heir: Wives, Singular: "Wife", Plural: "Wives", Max: 4},
	{Heir: Sons, Singular: "Son", Plural: "Sons", Male: true},
	{Heir: Daughters, Singular: "Daughter", Plural: "Daughters"},
	{Heir: Grandsons, Singular: "Grandson", Plural: "Grandsons", Male: true},
	{Heir: Granddaughters, Singular: "Granddaughter", Plural: "Granddaughters"},
	{Heir: Father, Singular: "Father", Plural: "Father", Male: true, Max: 1},
	{Heir: Mother, Singular: "Mother", Plural: "Mother", Max: 1},
	{Heir: Grandfather, Singular: "Grandfather", Plural: "Grandfather", Male: true, Max: 1},
	{Heir: PaternalGrandmother, Singular: "Paternal Grandmother", Plural: "Paternal Grandmother", Max: 1},
	{Heir: MaternalGrandmother, Singular: "Maternal Grandmother", Plural: "Maternal Grandmother", Max: 1},
	{Heir: FullBrothers, Singular: "Full Brother", Plural: "Full Brothers", Male: true},
	{Heir: FullSisters, Singular: "Full Sister", Plural: "Full Sisters"},
	{Heir: PaternalBrothers, Singular: "Paternal Brother", Plural: "Paternal Brothers", Male: true},
	{Heir: PaternalSisters, Singular: "Paternal Sister", Plural: "Paternal Sisters"},
	{Heir: MaternalBrothers, Singular: "Maternal Brother", Plural: "Maternal Brothers", Male: true},
	{Heir: MaternalSisters, Singular: "Maternal Sister", Plural: "Maternal Sisters"},
	{Heir: FullNephews, Singular: "Full Nephew", Plural: "Full Nephews", Male: true},
	{Heir: PaternalNephews, Singular: "Paternal Nephew", Plural: "Paternal Nephews", Male: true},
	{Heir: FullNephewSons, Singular: "Son of Full Nephew", Plural: "Sons of Full Nephews", Male: true},
	{Heir: PaternalNephewSons, Singular: "Son of Paternal Nephew", Plural: "Sons of Paternal Nephews", Male: true},
	{Heir: FullPaternalUncles, Singular: "Full Paternal Uncle", Plural: "Full Paternal Uncles", Male: true},
	{Heir: PaternalPaternalUncles, Singular: "Paternal Half-Uncle", Plural: "Paternal Half-Uncles", Male: true},
	{Heir: FullCousins, Singular: "Full Cousin", Plural: "Full Cousins", Male: true},
	{Heir: PaternalCousins, Singular: "Paternal Cousin", Plural: "Paternal Cousins", Male: true},
	{Heir: FullCousinSons, Singular: "Son of Full Cousin", Plural: "Sons of Full Cousins", Male: true},
	{Heir: PaternalCousinSons, Singular: "Son of Paternal Cousin", Plural: "Sons of Paternal Cousins", Male: true},
	{Heir: FullCousinGrandsons, Singular: "Grandson of Full Cousin", Plural: "Grandsons of Full Cousins", Male: true},
	{Heir: PaternalCousinGrandsons, Singular: "Grandson of Paternal Cousin", Plural: "Grandsons of Paternal Cousins", Male: true},
}

const heirCount = len(catalogue)

var heirIndex = func() map[Heir]int {
	idx := make(map[Heir]int, heirCount)
	for i, info := range catalogue {
		idx[info.Heir] = i
	}
	return idx
}()

// limit is the largest valid count for the category.
func (i HeirInfo) limit() int {
	if i.Max > 0 {
		return i.Max
	}
	return MaxCount
}

// Heirs returns the catalogue of heir categories in canonical order.
func Heirs() []HeirInfo {
	out := make([]HeirInfo, heirCount)
	copy(out, catalogue[:])
	return out
}

// Info returns the catalogue entry for h.
func Info(h Heir) (HeirInfo, bool) {
	i, ok := heirIndex[h]
	if !ok {
		return HeirInfo{}, false
	}
	return catalogue[i], true
}

// ParseHeir resolves an identifier such as "full_brothers" or "full-brothers".
func ParseHeir(raw string) (Heir, error) {
	h := Heir(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if _, ok := heirIndex[h]; !ok {
		return "", fmt.Errorf("%w: unknown heir category %q", ErrInvalidInput, raw)
	}
	return h, nil
}

// Label returns the display name of h for n relatives.
func (h Heir) Label(n int) string {
	info, ok := Info(h)
	if !ok {
		return string(h)
	}
	if n > 1 {
		return info.Plural
	}
	return info.Singular
}

func (h Heir) String() string {
	return string(h)
}
