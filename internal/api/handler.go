package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/goccy/go-json"

	"github.com/drhimam/islamic-will-creator/internal/inheritance"
	"github.com/drhimam/islamic-will-creator/internal/metrics"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	// DefaultMaxBatchSize bounds the number of estates per batch request.
	DefaultMaxBatchSize = 100

	maxRequestBytes = 1 << 20
)

// Handler wires the allocator into HTTP handlers.
type Handler struct {
	allocator inheritance.Allocator
	metrics   *metrics.Metrics

	clock func() time.Time

	maxBatchSize int
	batchWorkers int
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics records calculation metrics on m.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithBatchLimits caps the estates accepted per batch request and the number
// evaluated concurrently. Non-positive values keep the defaults.
func WithBatchLimits(maxEstates, workers int) HandlerOption {
	return func(h *Handler) {
		if maxEstates > 0 {
			h.maxBatchSize = maxEstates
		}
		if workers > 0 {
			h.batchWorkers = workers
		}
	}
}

// NewHandler constructs a Handler with the provided allocator.
func NewHandler(alloc inheritance.Allocator, opts ...HandlerOption) *Handler {
	h := &Handler{
		allocator: alloc,
		clock: func() time.Time {
			return time.Now().UTC()
		},
		maxBatchSize: DefaultMaxBatchSize,
		batchWorkers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleHeirs(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, heirsResponse{Heirs: inheritance.Heirs()})
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request too large", "request body exceeds 1 MiB")
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type heirsResponse struct {
	Heirs []inheritance.HeirInfo `json:"heirs"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// apiError is a failed evaluation carrying its HTTP status.
type apiError struct {
	status int
	body   errorResponse
}

func newAPIError(status int, message, details, suggestion string) *apiError {
	return &apiError{
		status: status,
		body:   errorResponse{Error: message, Details: details, Suggestion: suggestion},
	}
}

func (e *apiError) write(w http.ResponseWriter) {
	writeJSON(w, e.status, e.body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
