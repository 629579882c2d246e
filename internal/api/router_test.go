package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/finhealth/backend/internal/api/handlers"
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

type stubAnalyzer struct {
	lastQuery    string
	panics       bool
	resolveCalls int
}

func (s *stubAnalyzer) Resolve(ctx context.Context, input string) (*contracts.AnalysisResult, error) {
	s.resolveCalls++
	if s.panics {
		panic("boom")
	}
	return &contracts.AnalysisResult{Ticker: input}, nil
}

func (s *stubAnalyzer) Search(ctx context.Context, query string, limit int) ([]contracts.SearchResult, error) {
	s.lastQuery = query
	return []contracts.SearchResult{}, nil
}

func (s *stubAnalyzer) News(ctx context.Context, symbol string, limit int) ([]contracts.NewsItem, error) {
	return []contracts.NewsItem{}, nil
}

type stubEngine struct{}

func (stubEngine) Compute(ctx context.Context) *contracts.BuffettIndicatorResult {
	return &contracts.BuffettIndicatorResult{Countries: []contracts.BuffettCountryEntry{}}
}

func newTestRouter(analyzer *stubAnalyzer) http.Handler {
	log := logger.Nop()
	return NewRouter(
		handlers.NewAnalysisHandler(analyzer, log),
		handlers.NewMacroHandler(stubEngine{}, log),
		handlers.NewHealthHandler(ServiceName, log),
		log,
	)
}

func get(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	tests := []struct {
		target string
		want   int
	}{
		{"/", http.StatusOK},
		{"/health", http.StatusOK},
		{"/api/analyze/AAPL", http.StatusOK},
		{"/api/search/apple", http.StatusOK},
		{"/api/search/", http.StatusOK},
		{"/api/news/AAPL", http.StatusOK},
		{"/api/buffett-indicator", http.StatusOK},
		{"/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, router, http.MethodGet, tt.target)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHealthAndBanner(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{})

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(get(t, router, http.MethodGet, "/health").Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, ServiceName, health["service"])
	assert.NotEmpty(t, health["timestamp"])

	var banner map[string]interface{}
	require.NoError(t, json.Unmarshal(get(t, router, http.MethodGet, "/").Body.Bytes(), &banner))
	assert.Equal(t, Version, banner["version"])
}

func TestSearchWithoutQuery(t *testing.T) {
	analyzer := &stubAnalyzer{lastQuery: "unset"}
	router := newTestRouter(analyzer)

	rec := get(t, router, http.MethodGet, "/api/search/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", analyzer.lastQuery)
}

func TestCORS(t *testing.T) {
	analyzer := &stubAnalyzer{}
	router := newTestRouter(analyzer)

	// Preflight은 핸들러까지 가지 않음
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze/AAPL", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
	assert.Empty(t, rec.Body.String())
	assert.Zero(t, analyzer.resolveCalls)

	// Actual request
	req = httptest.NewRequest(http.MethodGet, "/api/news/AAPL", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	router := newTestRouter(&stubAnalyzer{panics: true})

	rec := get(t, router, http.MethodGet, "/api/analyze/AAPL")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
