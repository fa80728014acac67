package inheritance

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Counts holds the number of living relatives per heir category. The zero
// value is valid and means no relatives.
type Counts struct {
	n [heirCount]int
}

// NewCounts builds Counts from a category map, rejecting negative counts and
// counts above the category cap. Every violation is reported.
func NewCounts(m map[Heir]int) (Counts, error) {
	var c Counts
	var errs error
	for _, h := range sortedKeys(m) {
		i, ok := heirIndex[h]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: unknown heir category %q", ErrInvalidInput, h))
			continue
		}
		c.n[i] = m[h]
	}
	if err := c.Validate(); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		return Counts{}, errs
	}
	return c, nil
}

// ParseCounts is NewCounts for string keys as received over the wire.
func ParseCounts(raw map[string]int) (Counts, error) {
	m := make(map[Heir]int, len(raw))
	var errs error
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		h, err := ParseHeir(key)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		m[h] += raw[key]
	}
	if errs != nil {
		return Counts{}, errs
	}
	return NewCounts(m)
}

// MustCounts is NewCounts that panics on invalid input. Intended for tests and
// package-level fixtures.
func MustCounts(m map[Heir]int) Counts {
	c, err := NewCounts(m)
	if err != nil {
		panic(err)
	}
	return c
}

// MaxCount bounds every category without a tighter cap. It keeps residuary
// unit sums well inside int range.
const MaxCount = 10000

// Validate reports every count that is negative or above its category cap.
func (c Counts) Validate() error {
	var errs error
	for i, n := range c.n {
		info := catalogue[i]
		switch {
		case n < 0:
			errs = multierr.Append(errs, fmt.Errorf("%w: %s count %d is negative", ErrInvalidInput, info.Heir, n))
		case n > info.limit():
			errs = multierr.Append(errs, fmt.Errorf("%w: %s count %d exceeds maximum %d", ErrInvalidInput, info.Heir, n, info.limit()))
		}
	}
	return errs
}

// Get returns the count for h, or zero for unknown categories.
func (c Counts) Get(h Heir) int {
	i, ok := heirIndex[h]
	if !ok {
		return 0
	}
	return c.n[i]
}

// IsEmpty reports whether no relatives are recorded.
func (c Counts) IsEmpty() bool {
	return c == Counts{}
}

// Map returns the non-zero counts keyed by category.
func (c Counts) Map() map[Heir]int {
	out := make(map[Heir]int)
	for i, n := range c.n {
		if n != 0 {
			out[catalogue[i].Heir] = n
		}
	}
	return out
}

func sortedKeys(m map[Heir]int) []Heir {
	keys := make([]Heir, 0, len(m))
	for h := range m {
		keys = append(keys, h)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
