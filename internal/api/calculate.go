package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/drhimam/islamic-will-creator/internal/estate"
	"github.com/drhimam/islamic-will-creator/internal/inheritance"
	"github.com/drhimam/islamic-will-creator/internal/metrics"
	"github.com/drhimam/islamic-will-creator/internal/report"
)

const countsSuggestion = "Use the identifiers from GET /api/heirs with non-negative counts; " +
	"husband, father and mother are at most 1 and wives at most 4"

type calculateRequest struct {
	Relatives   map[string]int   `json:"relatives"`
	EstateValue *decimal.Decimal `json:"estateValue,omitempty"`
}

type calculateResponse struct {
	Relatives map[inheritance.Heir]int `json:"relatives"`
	report.Report
	CalculationTimeMs int64 `json:"calculationTimeMs"`
}

type batchRequest struct {
	Estates []calculateRequest `json:"estates"`
}

type batchResult struct {
	Index  int                `json:"index"`
	Result *calculateResponse `json:"result,omitempty"`
	Error  *errorResponse     `json:"error,omitempty"`
}

type batchResponse struct {
	Results           []batchResult `json:"results"`
	Count             int           `json:"count"`
	Failed            int           `json:"failed"`
	CalculationTimeMs int64         `json:"calculationTimeMs"`
}

func (h *Handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	resp, apiErr := h.evaluate(req)
	if apiErr != nil {
		apiErr.write(w)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCalculateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	switch n := len(req.Estates); {
	case n == 0:
		writeError(w, http.StatusBadRequest, "Invalid request", "estates must contain at least one estate")
		return
	case n > h.maxBatchSize:
		writeError(w, http.StatusRequestEntityTooLarge, "Batch too large",
			fmt.Sprintf("%d estates exceeds the limit of %d", n, h.maxBatchSize),
			fmt.Sprintf("Split the request into batches of at most %d estates", h.maxBatchSize))
		return
	}
	h.metrics.ObserveBatchSize(len(req.Estates))

	start := time.Now()
	results := make([]batchResult, len(req.Estates))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.batchWorkers)
	for i, estateReq := range req.Estates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i].Index = i
			resp, apiErr := h.evaluate(estateReq)
			if apiErr != nil {
				results[i].Error = &apiErr.body
				return nil
			}
			results[i].Result = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Request cancelled", err.Error())
		return
	}

	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
		}
	}
	writeJSON(w, http.StatusOK, batchResponse{
		Results:           results,
		Count:             len(results),
		Failed:            failed,
		CalculationTimeMs: time.Since(start).Milliseconds(),
	})
}

// evaluate validates and distributes a single estate. It is safe to call
// concurrently.
func (h *Handler) evaluate(req calculateRequest) (*calculateResponse, *apiError) {
	counts, err := inheritance.ParseCounts(req.Relatives)
	if err != nil {
		h.metrics.ObserveCalculation(metrics.OutcomeInvalid, 0)
		return nil, newAPIError(http.StatusBadRequest, "Invalid relatives", err.Error(), countsSuggestion)
	}
	if req.EstateValue != nil && req.EstateValue.IsNegative() {
		h.metrics.ObserveCalculation(metrics.OutcomeInvalid, 0)
		return nil, newAPIError(http.StatusBadRequest, "Invalid estate value",
			fmt.Sprintf("%v: estateValue %s is negative", estate.ErrInvalidAmount, req.EstateValue), "")
	}

	result, elapsed, apiErr := h.calculate(counts)
	if apiErr != nil {
		return nil, apiErr
	}
	return &calculateResponse{
		Relatives:         counts.Map(),
		Report:            report.Build(result, req.EstateValue),
		CalculationTimeMs: elapsed.Milliseconds(),
	}, nil
}

// calculate runs the allocator and records metrics for the outcome.
func (h *Handler) calculate(counts inheritance.Counts) (inheritance.Result, time.Duration, *apiError) {
	start := time.Now()
	result, err := h.allocator.Calculate(counts)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, inheritance.ErrInvalidInput) {
			h.metrics.ObserveCalculation(metrics.OutcomeInvalid, elapsed)
			return inheritance.Result{}, elapsed, newAPIError(http.StatusBadRequest, "Invalid relatives", err.Error(), countsSuggestion)
		}
		h.metrics.ObserveCalculation(metrics.OutcomeError, elapsed)
		return inheritance.Result{}, elapsed, newAPIError(http.StatusInternalServerError, "Internal error", err.Error(), "")
	}

	h.metrics.ObserveCalculation(metrics.OutcomeSuccess, elapsed)
	if result.HasUnallocatedResidue() {
		h.metrics.IncrementUnallocated()
	}
	if result.Awl {
		h.metrics.IncrementAwl()
	}
	return result, elapsed, nil
}
