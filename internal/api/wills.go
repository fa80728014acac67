package api

import (
	"errors"
	"net/http"

	"github.com/drhimam/islamic-will-creator/internal/estate"
	"github.com/drhimam/islamic-will-creator/internal/inheritance"
	"github.com/drhimam/islamic-will-creator/internal/report"
	"github.com/drhimam/islamic-will-creator/internal/will"
)

type willDistributionResponse struct {
	Testator          string                   `json:"testator"`
	Relatives         map[inheritance.Heir]int `json:"relatives"`
	Estate            estate.Breakdown         `json:"estate"`
	Distribution      report.Report            `json:"distribution"`
	CalculationTimeMs int64                    `json:"calculationTimeMs"`
}

// handleWillDistribution derives heirs and the distributable estate from a
// complete will record and distributes it.
func (h *Handler) handleWillDistribution(w http.ResponseWriter, r *http.Request) {
	var rec will.Record
	if err := decodeJSON(w, r, &rec); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := rec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid will", err.Error(),
			"personalInfo.fullName is required and personalInfo.gender must be male or female")
		return
	}

	counts, err := h.allocator.CountsFromWill(rec)
	if err != nil {
		switch {
		case errors.Is(err, inheritance.ErrMissingGender):
			writeError(w, http.StatusUnprocessableEntity, "Cannot derive heirs", err.Error(),
				"Set personalInfo.gender to male or female")
		case errors.Is(err, inheritance.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Invalid relatives", err.Error(), countsSuggestion)
		default:
			writeInternalError(w, err)
		}
		return
	}

	breakdown, err := estate.FromWill(rec)
	if err != nil {
		switch {
		case errors.Is(err, estate.ErrBequestLimit):
			writeError(w, http.StatusUnprocessableEntity, "Bequests too large", err.Error(),
				"Reduce charitable bequests to at most 33.33% of the estate")
		case errors.Is(err, estate.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "Invalid amount", err.Error(),
				"Enter monetary values as plain non-negative numbers, e.g. 25000.50")
		default:
			writeInternalError(w, err)
		}
		return
	}

	result, elapsed, apiErr := h.calculate(counts)
	if apiErr != nil {
		apiErr.write(w)
		return
	}

	writeJSON(w, http.StatusOK, willDistributionResponse{
		Testator:          rec.PersonalInfo.FullName,
		Relatives:         counts.Map(),
		Estate:            breakdown,
		Distribution:      report.Build(result, &breakdown.Distributable),
		CalculationTimeMs: elapsed.Milliseconds(),
	})
}
