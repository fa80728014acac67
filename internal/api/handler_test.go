package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/drhimam/islamic-will-creator/internal/inheritance"
	"github.com/drhimam/islamic-will-creator/internal/metrics"
)

type controllableClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newControllableClock(initial time.Time) *controllableClock {
	return &controllableClock{now: initial}
}

func (c *controllableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *controllableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupTestRouter(t *testing.T, opts ...HandlerOption) (http.Handler, *controllableClock) {
	t.Helper()

	clock := newControllableClock(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))
	opts = append([]HandlerOption{WithClock(clock.Now)}, opts...)

	handler := NewHandler(inheritance.New(), opts...)
	logger := zaptest.NewLogger(t)
	router := NewRouter(handler, logger, WithLogging(false), WithRateLimit(0, 0))

	return router, clock
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

type shareBody struct {
	Heirs            []string `json:"heirs"`
	Label            string   `json:"label"`
	Kind             string   `json:"kind"`
	Fraction         string   `json:"fraction"`
	Share            string   `json:"share"`
	Percentage       float64  `json:"percentage"`
	IndividualShare  string   `json:"individualShare"`
	Amount           string   `json:"amount"`
	IndividualAmount string   `json:"individualAmount"`
}

type calculateBody struct {
	Relatives             map[string]int `json:"relatives"`
	Shares                []shareBody    `json:"shares"`
	TotalFixedShare       string         `json:"totalFixedShare"`
	Residue               string         `json:"residue"`
	Unallocated           string         `json:"unallocated"`
	HasUnallocatedResidue bool           `json:"hasUnallocatedResidue"`
	ResiduaryTier         string         `json:"residuaryTier"`
	Awl                   bool           `json:"awl"`
	NoHeirs               bool           `json:"noHeirs"`
}

type errorBody struct {
	Error      string `json:"error"`
	Details    string `json:"details"`
	Suggestion string `json:"suggestion"`
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, clock := setupTestRouter(t)
	clock.Advance(time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	decodeBody(t, rec, &body)

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(clock.Now()) {
		t.Fatalf("expected timestamp %s, got %s", clock.Now(), body.Timestamp)
	}
}

func TestHeirsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/heirs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Heirs []struct {
			ID       string `json:"id"`
			Singular string `json:"singular"`
			Max      int    `json:"max"`
		} `json:"heirs"`
	}
	decodeBody(t, rec, &body)

	if len(body.Heirs) != len(inheritance.Heirs()) {
		t.Fatalf("expected %d heirs, got %d", len(inheritance.Heirs()), len(body.Heirs))
	}
	if first := body.Heirs[0]; first.ID != "husband" || first.Max != 1 {
		t.Fatalf("expected husband capped at 1 first, got %+v", first)
	}
}

func TestCalculateEndpointSuccess(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/calculate", map[string]any{
		"relatives":   map[string]int{"wives": 1, "sons": 1, "daughters": 1},
		"estateValue": "240000",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body calculateBody
	decodeBody(t, rec, &body)

	if body.Relatives["sons"] != 1 || body.Relatives["wives"] != 1 {
		t.Fatalf("expected relatives to be echoed, got %v", body.Relatives)
	}

	want := []struct {
		label, kind, fraction, share, amount string
	}{
		{"Wife", "fixed", "1/8", "1/8", "30000"},
		{"Son", "residuary", "residue", "7/12", "140000"},
		{"Daughter", "residuary", "residue", "7/24", "70000"},
	}
	if len(body.Shares) != len(want) {
		t.Fatalf("expected %d shares, got %d", len(want), len(body.Shares))
	}
	for i, w := range want {
		got := body.Shares[i]
		if got.Label != w.label || got.Kind != w.kind || got.Fraction != w.fraction ||
			got.Share != w.share || got.Amount != w.amount {
			t.Fatalf("share %d: expected %+v, got %+v", i, w, got)
		}
	}
	if body.ResiduaryTier != "descendants" || body.HasUnallocatedResidue {
		t.Fatalf("unexpected residue reporting: %+v", body)
	}
}

func TestCalculateEndpointAcceptsHyphenatedIdentifiers(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/calculate", map[string]any{
		"relatives": map[string]int{"full-brothers": 2, "mother": 1},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body calculateBody
	decodeBody(t, rec, &body)
	if body.ResiduaryTier != "full siblings" {
		t.Fatalf("expected full siblings to take the residue, got %q", body.ResiduaryTier)
	}
	if body.Shares[0].Share != "1/6" {
		t.Fatalf("expected mother reduced to 1/6 by two brothers, got %s", body.Shares[0].Share)
	}
}

func TestCalculateEndpointReportsUnallocatedResidue(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/calculate", map[string]any{
		"relatives": map[string]int{"husband": 1},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body calculateBody
	decodeBody(t, rec, &body)
	if !body.HasUnallocatedResidue || body.Unallocated != "1/2" {
		t.Fatalf("expected 1/2 unallocated, got %+v", body)
	}
}

func TestCalculateEndpointNoHeirs(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := postJSON(t, router, "/api/calculate", map[string]any{"relatives": map[string]int{}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body calculateBody
	decodeBody(t, rec, &body)
	if !body.NoHeirs || len(body.Shares) != 0 {
		t.Fatalf("expected no heirs, got %+v", body)
	}
}

func TestCalculateEndpointRejectsInvalidInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name    string
		payload any
	}{
		{name: "TwoHusbands", payload: map[string]any{"relatives": map[string]int{"husband": 2}}},
		{name: "FiveWives", payload: map[string]any{"relatives": map[string]int{"wives": 5}}},
		{name: "NegativeCount", payload: map[string]any{"relatives": map[string]int{"sons": -1}}},
		{name: "UnknownHeir", payload: map[string]any{"relatives": map[string]int{"aunts": 1}}},
		{name: "NegativeEstate", payload: map[string]any{"relatives": map[string]int{"sons": 1}, "estateValue": "-5"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/calculate", tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			var body errorBody
			decodeBody(t, rec, &body)
			if body.Error == "" || body.Details == "" {
				t.Fatalf("expected error details, got %+v", body)
			}
		})
	}
}

func TestCalculateEndpointRejectsMalformedJSON(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader("{relatives"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestCalculateEndpointRejectsOversizedBody(t *testing.T) {
	router, _ := setupTestRouter(t)

	payload := `{"relatives":{"sons":1},"padding":"` + strings.Repeat("x", maxRequestBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/calculate", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rec.Code)
	}
}

func TestCalculateBatchEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, WithBatchLimits(10, 2))

	rec := postJSON(t, router, "/api/calculate/batch", map[string]any{
		"estates": []map[string]any{
			{"relatives": map[string]int{"husband": 1, "daughters": 1}},
			{"relatives": map[string]int{"husband": 3}},
			{"relatives": map[string]int{"father": 1, "mother": 1}, "estateValue": "90000"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Results []struct {
			Index  int            `json:"index"`
			Result *calculateBody `json:"result"`
			Error  *errorBody     `json:"error"`
		} `json:"results"`
		Count  int `json:"count"`
		Failed int `json:"failed"`
	}
	decodeBody(t, rec, &body)

	if body.Count != 3 || body.Failed != 1 {
		t.Fatalf("expected 3 results with 1 failure, got count=%d failed=%d", body.Count, body.Failed)
	}
	for i, res := range body.Results {
		if res.Index != i {
			t.Fatalf("expected results in request order, got index %d at %d", res.Index, i)
		}
	}
	if res := body.Results[0]; res.Result == nil || res.Result.Unallocated != "1/4" {
		t.Fatalf("expected first estate to leave 1/4 unallocated, got %+v", res)
	}
	if res := body.Results[1]; res.Error == nil || res.Result != nil {
		t.Fatalf("expected second estate to fail inline, got %+v", res)
	}
	third := body.Results[2].Result
	if third == nil || len(third.Shares) != 2 {
		t.Fatalf("expected mother and father shares, got %+v", third)
	}
	if third.Shares[0].Amount != "30000" || third.Shares[1].Amount != "60000" {
		t.Fatalf("expected 30000/60000 split, got %+v", third.Shares)
	}
}

func TestCalculateBatchEndpointLimits(t *testing.T) {
	router, _ := setupTestRouter(t, WithBatchLimits(2, 1))

	estate := map[string]any{"relatives": map[string]int{"sons": 1}}

	if rec := postJSON(t, router, "/api/calculate/batch", map[string]any{"estates": []any{}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty batch, got %d", rec.Code)
	}

	rec := postJSON(t, router, "/api/calculate/batch", map[string]any{"estates": []any{estate, estate, estate}})
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413 for oversized batch, got %d", rec.Code)
	}
	var body errorBody
	decodeBody(t, rec, &body)
	if body.Suggestion == "" {
		t.Fatalf("expected suggestion to be populated")
	}
}

const willPayload = `{
  "personalInfo": {"fullName": "Yusuf Rahman", "gender": "male"},
  "familyInfo": {
    "maritalStatus": "married",
    "spouseName": "Aisha",
    "children": [
      {"childName": "Ahmad", "childGender": "male"},
      {"childName": "Fatima", "childGender": "female"}
    ],
    "fatherAlive": "deceased",
    "motherAlive": "alive"
  },
  "assets": {
    "cash": [{"cashType": "savings", "cashAmount": "100000"}],
    "property": [{"propertyType": "house", "propertyValue": "150,000"}]
  },
  "debts": [{"debtType": "loan", "debtAmount": "10000"}],
  "charities": [{"charityName": "Masjid", "charityPercent": "10"}]
}`

func TestWillDistributionEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/wills/distribution", strings.NewReader(willPayload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Testator  string         `json:"testator"`
		Relatives map[string]int `json:"relatives"`
		Estate    struct {
			NetEstate     string `json:"netEstate"`
			Bequests      string `json:"bequests"`
			Distributable string `json:"distributable"`
		} `json:"estate"`
		Distribution calculateBody `json:"distribution"`
	}
	decodeBody(t, rec, &body)

	if body.Testator != "Yusuf Rahman" {
		t.Fatalf("expected testator name, got %q", body.Testator)
	}
	if body.Relatives["wives"] != 1 || body.Relatives["mother"] != 1 || body.Relatives["father"] != 0 {
		t.Fatalf("unexpected derived relatives: %v", body.Relatives)
	}
	if body.Estate.NetEstate != "240000" || body.Estate.Bequests != "24000" || body.Estate.Distributable != "216000" {
		t.Fatalf("unexpected estate breakdown: %+v", body.Estate)
	}

	wantAmounts := map[string]string{"Wife": "27000", "Mother": "36000", "Son": "102000", "Daughter": "51000"}
	if len(body.Distribution.Shares) != len(wantAmounts) {
		t.Fatalf("expected %d shares, got %+v", len(wantAmounts), body.Distribution.Shares)
	}
	for _, s := range body.Distribution.Shares {
		if want := wantAmounts[s.Label]; s.Amount != want {
			t.Fatalf("%s: expected amount %s, got %s", s.Label, want, s.Amount)
		}
	}
}

func TestWillDistributionEndpointErrors(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{
			name:   "MarriedWithoutGender",
			body:   `{"personalInfo": {"fullName": "Anonymous"}, "familyInfo": {"maritalStatus": "married", "spouseName": "Khadija"}}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "UnknownGender",
			body:   `{"personalInfo": {"fullName": "Anonymous", "gender": "other"}}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "MissingName",
			body:   `{"personalInfo": {"gender": "female"}}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "InvalidAmount",
			body:   `{"personalInfo": {"fullName": "A", "gender": "female"}, "assets": {"cash": [{"cashAmount": "lots"}]}}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "BequestsOverOneThird",
			body:   `{"personalInfo": {"fullName": "A", "gender": "female"}, "charities": [{"charityPercent": "40"}]}`,
			status: http.StatusUnprocessableEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/wills/distribution", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			var body errorBody
			decodeBody(t, rec, &body)
			if body.Suggestion == "" {
				t.Fatalf("expected suggestion to be populated")
			}
		})
	}
}

func TestWillDistributionWithoutGenderWhenUnmarried(t *testing.T) {
	router, _ := setupTestRouter(t)

	body := `{"personalInfo": {"fullName": "Anonymous"}, "familyInfo": {"maritalStatus": "single", "children": [{"childName": "Ali", "childGender": "male"}]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/wills/distribution", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Relatives map[string]int `json:"relatives"`
	}
	decodeBody(t, rec, &got)
	if got.Relatives["sons"] != 1 || len(got.Relatives) != 1 {
		t.Fatalf("unexpected derived relatives: %v", got.Relatives)
	}
}

func TestHandlerRecordsMetrics(t *testing.T) {
	m := metrics.New()
	router, _ := setupTestRouter(t, WithMetrics(m))

	postJSON(t, router, "/api/calculate", map[string]any{"relatives": map[string]int{"husband": 1}})
	postJSON(t, router, "/api/calculate", map[string]any{"relatives": map[string]int{"husband": 1, "full_sisters": 2}})
	postJSON(t, router, "/api/calculate", map[string]any{"relatives": map[string]int{"husband": 2}})

	if got := testutil.ToFloat64(m.Calculations.WithLabelValues(metrics.OutcomeSuccess)); got != 2 {
		t.Fatalf("expected 2 successful calculations, got %v", got)
	}
	if got := testutil.ToFloat64(m.Calculations.WithLabelValues(metrics.OutcomeInvalid)); got != 1 {
		t.Fatalf("expected 1 invalid calculation, got %v", got)
	}
	if got := testutil.ToFloat64(m.Unallocated); got != 1 {
		t.Fatalf("expected 1 unallocated distribution, got %v", got)
	}
	if got := testutil.ToFloat64(m.Awl); got != 1 {
		t.Fatalf("expected 1 awl distribution, got %v", got)
	}
}

func TestCorsPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/calculate", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected X-Request-ID header to be echoed, got %s", got)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if _, err := uuid.Parse(rec.Header().Get("X-Request-ID")); err != nil {
		t.Fatalf("expected generated request ID to be a UUID: %v", err)
	}
}
