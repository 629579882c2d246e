package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/finhealth/backend/internal/analysis"
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

type fakeAnalyzer struct {
	result    *contracts.AnalysisResult
	err       error
	lastLimit int
}

func (f *fakeAnalyzer) Resolve(ctx context.Context, input string) (*contracts.AnalysisResult, error) {
	return f.result, f.err
}

func (f *fakeAnalyzer) Search(ctx context.Context, query string, limit int) ([]contracts.SearchResult, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeAnalyzer) News(ctx context.Context, symbol string, limit int) ([]contracts.NewsItem, error) {
	f.lastLimit = limit
	return []contracts.NewsItem{{Title: "headline", URL: "https://example.com"}}, f.err
}

func serve(handler http.HandlerFunc, pattern, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc(pattern, handler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty input", analysis.ErrEmptyInput, http.StatusBadRequest},
		{"not found", fmt.Errorf("resolve: %w", contracts.ErrTickerNotFound), http.StatusNotFound},
		{"integrity", fmt.Errorf("build: %w", &contracts.DataIntegrityError{Component: "kpis", Field: "ticker"}), http.StatusInternalServerError},
		{"provider down", &contracts.ProviderUnavailableError{Provider: "yahoo", Err: errors.New("timeout")}, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{result: &contracts.AnalysisResult{Ticker: "AAPL", FiscalPeriod: "2023"}}, logger.Nop())

	rec := serve(h.Analyze, "/api/analyze/{input}", "/api/analyze/aapl")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AAPL", body["ticker"])
}

func TestAnalyze_Errors(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalyzer{err: fmt.Errorf("resolve: %w", contracts.ErrTickerNotFound)}, logger.Nop())

	rec := serve(h.Analyze, "/api/analyze/{input}", "/api/analyze/zzzz")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "ticker not found")
}

func TestSearch_EmptyListNotNull(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	h := NewAnalysisHandler(analyzer, logger.Nop())

	rec := serve(h.Search, "/api/search/{query}", "/api/search/apple?limit=50")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, maxLimit, analyzer.lastLimit)
}

func TestNews_DefaultLimit(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	h := NewAnalysisHandler(analyzer, logger.Nop())

	rec := serve(h.News, "/api/news/{ticker}", "/api/news/AAPL?limit=abc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultNewsLimit, analyzer.lastLimit)
}

type fakeEngine struct{ result *contracts.BuffettIndicatorResult }

func (f *fakeEngine) Compute(ctx context.Context) *contracts.BuffettIndicatorResult { return f.result }

func TestBuffettIndicator_PartialFailureStill200(t *testing.T) {
	ratio := 119
	engine := &fakeEngine{result: &contracts.BuffettIndicatorResult{Countries: []contracts.BuffettCountryEntry{
		{Country: "United States", Code: "US", Ratio: &ratio, Label: "Slightly overvalued"},
		{Country: "Japan", Code: "JP", Error: true},
	}}}
	h := NewMacroHandler(engine, logger.Nop())

	rec := serve(h.BuffettIndicator, "/api/buffett-indicator", "/api/buffett-indicator")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Countries []map[string]interface{} `json:"countries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Countries, 2)
	assert.Equal(t, float64(119), body.Countries[0]["ratio"])
	assert.Equal(t, true, body.Countries[1]["error"])
	assert.NotContains(t, body.Countries[1], "ratio")
}

func TestRespondJSON_NonFiniteBecomesNull(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	type payload struct {
		A *float64               `json:"a"`
		B float64                `json:"b"`
		C []*float64             `json:"c"`
		D map[string]interface{} `json:"d"`
	}
	data := &payload{A: &nan, B: inf, C: []*float64{&inf}, D: map[string]interface{}{"x": math.Inf(-1), "y": 1.5}}

	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, data)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"a":null,"b":0,"c":[null],"d":{"x":null,"y":1.5}}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]ComponentCheck
		wantStatus string
	}{
		{
			name:       "no components",
			checks:     nil,
			wantStatus: "ok",
		},
		{
			name: "all healthy",
			checks: map[string]ComponentCheck{
				"redis": func(ctx context.Context) (interface{}, error) { return map[string]int{"total_conns": 1}, nil },
			},
			wantStatus: "ok",
		},
		{
			name: "database down degrades",
			checks: map[string]ComponentCheck{
				"redis":    func(ctx context.Context) (interface{}, error) { return nil, nil },
				"database": func(ctx context.Context) (interface{}, error) { return nil, errors.New("connection refused") },
			},
			wantStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("finhealth-api", logger.Nop())
			for name, check := range tt.checks {
				h.Register(name, check)
			}

			rec := serve(h.Health, "/health", "/health")
			require.Equal(t, http.StatusOK, rec.Code, "optional components never fail the endpoint")

			var body struct {
				Status     string                     `json:"status"`
				Service    string                     `json:"service"`
				Components map[string]ComponentStatus `json:"components"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, "finhealth-api", body.Service)
			assert.Len(t, body.Components, len(tt.checks))
		})
	}
}

func TestHealth_ComponentDetail(t *testing.T) {
	h := NewHealthHandler("finhealth-api", logger.Nop()).
		Register("database", func(ctx context.Context) (interface{}, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline, "checks run under a timeout")
			return nil, errors.New("connection refused")
		})

	rec := serve(h.Health, "/health", "/health")

	var body struct {
		Components map[string]ComponentStatus `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	db := body.Components["database"]
	assert.Equal(t, "error", db.Status)
	assert.Equal(t, "connection refused", db.Error)
}
