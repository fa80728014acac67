package inheritance

import "errors"

var (
	// ErrInvalidInput is returned when relative counts are negative, exceed a
	// per-category cap, or name an unknown category.
	ErrInvalidInput = errors.New("invalid relative counts")
	// ErrMissingGender is returned when a married decedent's gender is not stated.
	ErrMissingGender = errors.New("decedent gender is required to derive heirs")
	// ErrInvalidFraction is returned when a fraction cannot be parsed.
	ErrInvalidFraction = errors.New("invalid fraction")
)
