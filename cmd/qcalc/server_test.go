package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qcalc/app/prelude"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg, err := prelude.Default()
	require.NoError(t, err)
	return NewServer(":0", reg, zerolog.Nop())
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.mux.ServeHTTP(rr, req)
	return rr
}

func decodeEval(t *testing.T, rr *httptest.ResponseRecorder) EvalResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp EvalResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder, status int) ErrorResponse {
	t.Helper()
	require.Equal(t, status, rr.Code, rr.Body.String())
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := doRequest(s, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestEvalConversion(t *testing.T) {
	s := newTestServer(t)
	resp := decodeEval(t, doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "3 km -> m"}))

	assert.Equal(t, "3 km -> m", resp.Input)
	assert.Equal(t, "3 km -> m", resp.Expanded)
	assert.Equal(t, "3000 m", resp.Result)
	require.NotNil(t, resp.Magnitude)
	assert.Equal(t, 3000.0, *resp.Magnitude)
	assert.Equal(t, "dimensionless", resp.Dimension)
}

func TestEvalQuantity(t *testing.T) {
	s := newTestServer(t)
	resp := decodeEval(t, doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "2 kg + 500 g"}))

	assert.Equal(t, "2500 gram", resp.Result)
	require.NotNil(t, resp.Magnitude)
	assert.Equal(t, 2500.0, *resp.Magnitude)
	assert.Equal(t, "Mass", resp.Dimension)
}

func TestEvalExpandsPrecedence(t *testing.T) {
	s := newTestServer(t)
	resp := decodeEval(t, doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "1 m / s"}))

	assert.Equal(t, "1 m / s", resp.Expanded)
	assert.Equal(t, "1 meter / second", resp.Result)
	assert.Equal(t, "Length / Time", resp.Dimension)
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		status int
		kind   string
	}{
		{"syntax", "5 *", http.StatusBadRequest, "SyntaxError"},
		{"definition in expr", "1 smoot = 1.7018 m", http.StatusBadRequest, "SyntaxError"},
		{"empty", "", http.StatusBadRequest, "SyntaxError"},
		{"unknown unit", "3 furlongz", http.StatusUnprocessableEntity, "UnknownIdentifierError"},
		{"mismatch", "1 m + 1 s", http.StatusUnprocessableEntity, "DimensionMismatchError"},
		{"division by zero", "5 / 0", http.StatusUnprocessableEntity, "DivisionByZeroError"},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decodeError(t, doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: tt.expr}), tt.status)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.True(t, strings.HasPrefix(resp.Error, tt.kind+": "), resp.Error)
		})
	}
}

func TestEvalBadBody(t *testing.T) {
	s := newTestServer(t)

	resp := decodeError(t, doRequest(s, "POST", "/v1/eval", "{not json"), http.StatusBadRequest)
	assert.Contains(t, resp.Error, "invalid request body")
	assert.Empty(t, resp.Kind)

	resp = decodeError(t, doRequest(s, "POST", "/v1/eval", `{"expression": "1 m"}`), http.StatusBadRequest)
	assert.Contains(t, resp.Error, "unknown field")
}

func TestEvalWrongMethod(t *testing.T) {
	s := newTestServer(t)
	rr := doRequest(s, "GET", "/v1/eval", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestEvalRequestDefinitions(t *testing.T) {
	s := newTestServer(t)

	resp := decodeEval(t, doRequest(s, "POST", "/v1/eval", EvalRequest{
		Expr:        "2 smoot -> m",
		Definitions: []string{"1 smoot [smoots] = 1.7018 m"},
	}))
	assert.Equal(t, "3.4036 m", resp.Result)

	// Request definitions do not leak into the shared registry.
	errResp := decodeError(t, doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "1 smoot"}), http.StatusUnprocessableEntity)
	assert.Equal(t, "UnknownIdentifierError", errResp.Kind)
}

func TestEvalRequestDefinitionErrors(t *testing.T) {
	tests := []struct {
		name   string
		defs   []string
		status int
		kind   string
	}{
		{"expression", []string{"3 m"}, http.StatusBadRequest, "SyntaxError"},
		{"blank", []string{"  "}, http.StatusBadRequest, "SyntaxError"},
		{"malformed", []string{"1 smoot = "}, http.StatusBadRequest, "SyntaxError"},
		{"conflict", []string{"1 meter = 3 ft"}, http.StatusUnprocessableEntity, "NameConflictError"},
		{"dimension taken", []string{"1 thing :: Length"}, http.StatusUnprocessableEntity, "DimensionAlreadyDefinedError"},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "1 m", Definitions: tt.defs})
			resp := decodeError(t, rr, tt.status)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.True(t, strings.HasPrefix(resp.Error, "definition "), resp.Error)
		})
	}
}

func TestEvalConcurrent(t *testing.T) {
	s := newTestServer(t)

	var wg sync.WaitGroup
	codes := make([]int, 32)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := EvalRequest{Expr: "1 mile -> km"}
			if i%2 == 0 {
				req = EvalRequest{Expr: "1 smoot -> cm", Definitions: []string{"1 smoot = 1.7018 m"}}
			}
			codes[i] = doRequest(s, "POST", "/v1/eval", req).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}
	assert.Equal(t, int64(32), s.metrics.Snapshot().Evaluations)
}

func TestUnits(t *testing.T) {
	s := newTestServer(t)
	rr := doRequest(s, "GET", "/v1/units", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Units    []UnitInfo   `json:"units"`
		Prefixes []PrefixInfo `json:"prefixes"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Units)
	require.NotEmpty(t, resp.Prefixes)

	meter := resp.Units[0]
	assert.Equal(t, "meter", meter.Name)
	assert.Equal(t, "m", meter.Symbol)
	assert.Equal(t, "root", meter.Kind)
	assert.Equal(t, "1 meter", meter.Value)
	assert.Equal(t, "Length", meter.Dimension)

	var kilo *PrefixInfo
	for i := range resp.Prefixes {
		if resp.Prefixes[i].Name == "kilo" {
			kilo = &resp.Prefixes[i]
		}
	}
	require.NotNil(t, kilo)
	assert.Equal(t, "k", kilo.Symbol)
	assert.Equal(t, 1000.0, kilo.Scale)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "1 m"})
	doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "1 m", Definitions: []string{"1 smoot = 1.7018 m", "1 league = 3 mi"}})
	doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "5 / 0"})
	doRequest(s, "POST", "/v1/eval", EvalRequest{Expr: "5 *"})

	rr := doRequest(s, "GET", "/internal/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var snap MetricsSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, int64(2), snap.Evaluations)
	assert.Equal(t, int64(2), snap.Definitions)
	assert.Equal(t, map[string]int64{"DivisionByZeroError": 1, "SyntaxError": 1}, snap.Failures)
	assert.Positive(t, snap.Goroutines)
}

func TestLoggingMiddleware(t *testing.T) {
	reg, err := prelude.Default()
	require.NoError(t, err)
	var buf bytes.Buffer
	s := NewServer(":0", reg, zerolog.New(&buf).Level(zerolog.DebugLevel))

	req := httptest.NewRequest("POST", "/v1/eval", strings.NewReader(`{"expr": "5 *"}`))
	rr := httptest.NewRecorder()
	s.loggingMiddleware(s.mux).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/v1/eval", entry["path"])
	assert.Equal(t, float64(http.StatusBadRequest), entry["status"])
	assert.Equal(t, "request", entry["message"])
}
