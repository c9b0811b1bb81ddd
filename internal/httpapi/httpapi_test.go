package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilityassign/pkg/config"
)

func testConfig() config.Config {
	return config.Config{
		Solver: config.SolverConfig{
			DefaultAlgorithm: "flow",
			FlowScaleFactor:  1000,
			MilpScaleFactor:  100,
			TimeLimitSeconds: 5,
			GapTolerance:     0,
		},
		Geometry: config.GeometryConfig{
			Alpha:               1.0,
			DispersedSubsetSize: 8,
		},
	}
}

func postJSON(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/solve-assignment", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeHTTP_SimpleOptimum(t *testing.T) {
	h := NewHandler(testConfig(), nil)

	body := map[string]any{
		"clients": []map[string]any{
			{"id": "c1", "lat": 1.0, "lng": 1.0, "demand": 1},
			{"id": "c2", "lat": 3.0, "lng": 3.0, "demand": 1},
		},
		"facilities": []map[string]any{
			{"id": "FC1", "name": "FC1", "lat": 1.0, "lng": 1.0},
			{"id": "FC2", "name": "FC2", "lat": 3.0, "lng": 3.0},
		},
	}

	rec := postJSON(t, h, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp solveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OPTIMAL", resp.SolutionStatus)
}

// A requested totalDemand of 20 against two clients with raw demand 1 each
// rescales both to 10, exceeding a single facility capped at 15 — the kind
// of case that only shows up when totalDemand is honored rather than
// recomputed from the raw client demands.
func TestServeHTTP_TotalDemandOverridesRawClientSum(t *testing.T) {
	h := NewHandler(testConfig(), nil)

	body := map[string]any{
		"totalDemand": 20,
		"clients": []map[string]any{
			{"id": "c1", "lat": 1.0, "lng": 1.0, "demand": 1},
			{"id": "c2", "lat": 1.0, "lng": 1.0, "demand": 1},
		},
		"facilities": []map[string]any{
			{"id": "FC1", "name": "FC1", "lat": 1.0, "lng": 1.0, "maxDemand": 15},
		},
	}

	rec := postJSON(t, h, body)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp infeasibleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
}

func TestServeHTTP_EmptyClientsIsBadRequest(t *testing.T) {
	h := NewHandler(testConfig(), nil)

	body := map[string]any{
		"clients":    []map[string]any{},
		"facilities": []map[string]any{{"id": "FC1", "name": "FC1"}},
	}

	rec := postJSON(t, h, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeHTTP_MethodNotAllowed(t *testing.T) {
	h := NewHandler(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/solve-assignment", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServeHTTP_InvalidJSONIsBadRequest(t *testing.T) {
	h := NewHandler(testConfig(), nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/solve-assignment", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
