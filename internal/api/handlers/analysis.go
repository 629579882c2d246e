package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

const (
	defaultSearchLimit = 5
	defaultNewsLimit   = 10
	maxLimit           = 20
)

// Analyzer is the analysis service surface used by the HTTP layer
type Analyzer interface {
	Resolve(ctx context.Context, input string) (*contracts.AnalysisResult, error)
	Search(ctx context.Context, query string, limit int) ([]contracts.SearchResult, error)
	News(ctx context.Context, symbol string, limit int) ([]contracts.NewsItem, error)
}

// AnalysisHandler handles ticker analysis API endpoints
// ⭐ SSOT: 종목 분석 API 핸들러는 이 구조체에서만
type AnalysisHandler struct {
	analyzer Analyzer
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analyzer Analyzer, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		logger:   log,
	}
}

// Analyze returns the full financial health analysis
// GET /api/analyze/{input}
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	input := mux.Vars(r)["input"]

	result, err := h.analyzer.Resolve(r.Context(), input)
	if err != nil {
		status := statusForError(err)
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"input":  input,
			"status": status,
		}).Warn("Analysis failed")
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Search returns ticker autocomplete matches
// GET /api/search/{query}?limit=5
func (h *AnalysisHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := mux.Vars(r)["query"]
	limit := parseLimit(r, defaultSearchLimit)

	results, err := h.analyzer.Search(r.Context(), query, limit)
	if err != nil {
		h.logger.WithError(err).WithField("query", query).Error("Search failed")
		respondError(w, statusForError(err), "Failed to search tickers")
		return
	}

	if results == nil {
		results = []contracts.SearchResult{}
	}
	respondJSON(w, http.StatusOK, results)
}

// News returns recent headlines for a ticker
// GET /api/news/{ticker}?limit=10
func (h *AnalysisHandler) News(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	limit := parseLimit(r, defaultNewsLimit)

	items, err := h.analyzer.News(r.Context(), ticker, limit)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("News lookup failed")
		respondError(w, statusForError(err), "Failed to retrieve news")
		return
	}

	if items == nil {
		items = []contracts.NewsItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

// parseLimit reads ?limit=, falling back to def and capping at maxLimit
func parseLimit(r *http.Request, def int) int {
	limit := def
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
