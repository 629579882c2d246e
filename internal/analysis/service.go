package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/internal/scoringconfig"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

// ErrEmptyInput means the caller sent a blank ticker/company name
var ErrEmptyInput = errors.New("empty ticker input")

// Service runs the full analysis pipeline for one ticker
// ⭐ SSOT: Provider → StatementSeries → Ratio → {Piotroski, KPI} → Response
type Service struct {
	provider contracts.MarketDataProvider
	ratios   *RatioCalculator
	scorer   *PiotroskiScorer
	kpis     *KpiAssembler
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a new analysis service
func NewService(provider contracts.MarketDataProvider, rules *scoringconfig.Config, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		ratios:   NewRatioCalculator(log),
		scorer:   NewPiotroskiScorer(rules.Piotroski, log),
		kpis:     NewKpiAssembler(log),
		logger:   log,
		now:      time.Now,
	}
}

// Resolve analyzes user input: the upper-cased input is tried as a ticker
// first, then the first search hit is used.
func (s *Service) Resolve(ctx context.Context, input string) (*contracts.AnalysisResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	result, err := s.Analyze(ctx, strings.ToUpper(input))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, contracts.ErrTickerNotFound) {
		return nil, err
	}

	hits, searchErr := s.provider.Search(ctx, input, 1)
	if searchErr != nil {
		s.logger.WithError(searchErr).WithField("input", input).Warn("Ticker search fallback failed")
		return nil, err
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("resolve %q: %w", input, contracts.ErrTickerNotFound)
	}

	s.logger.WithFields(map[string]interface{}{
		"input":  input,
		"symbol": hits[0].Symbol,
	}).Info("Resolved input via search")

	return s.Analyze(ctx, hits[0].Symbol)
}

// Analyze fetches a snapshot for symbol and analyzes it
func (s *Service) Analyze(ctx context.Context, symbol string) (*contracts.AnalysisResult, error) {
	snapshot, err := s.provider.Snapshot(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot %s: %w", symbol, err)
	}

	return s.AnalyzeSnapshot(symbol, snapshot)
}

// AnalyzeSnapshot is the I/O-free part of the pipeline
func (s *Service) AnalyzeSnapshot(symbol string, snapshot *contracts.MarketSnapshot) (*contracts.AnalysisResult, error) {
	ticker := snapshot.Profile.Symbol
	if ticker == "" {
		ticker = strings.ToUpper(symbol)
	}

	series, err := contracts.NewStatementSeries(ticker, snapshot.Statements)
	if err != nil {
		return nil, fmt.Errorf("build statement series: %w", err)
	}

	ratios := s.ratios.Calculate(series)
	if ratios.InsufficientHistory != nil {
		s.logger.WithField("ticker", ticker).Info(ratios.InsufficientHistory.Error())
	}

	score := s.scorer.Score(ratios.Current, ratios.Prior)
	kpis := s.kpis.Assemble(snapshot.Quote, ratios.Current)

	profile := snapshot.Profile
	if profile.Name == "" {
		profile.Name = ticker
	}

	result, err := BuildAnalysisResponse(ResponseParts{
		Profile:       profile,
		Series:        series,
		Ratios:        ratios.Current,
		Score:         &score,
		Kpis:          &kpis,
		Prices:        BuildPriceHistory(snapshot.Prices),
		Dividends:     BuildDividendHistory(snapshot.Dividends, s.now()),
		ProfitMargins: BuildProfitMarginHistory(series),
	})
	if err != nil {
		return nil, fmt.Errorf("build analysis response: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker":        ticker,
		"fiscal_period": result.FiscalPeriod,
		"total_score":   score.TotalScore,
		"missing":       len(ratios.Missing),
	}).Info("Analysis completed")

	return result, nil
}

// Search proxies ticker lookup to the provider
func (s *Service) Search(ctx context.Context, query string, limit int) ([]contracts.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []contracts.SearchResult{}, nil
	}
	return s.provider.Search(ctx, query, limit)
}

// News proxies headlines to the provider
func (s *Service) News(ctx context.Context, symbol string, limit int) ([]contracts.NewsItem, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrEmptyInput
	}
	return s.provider.News(ctx, symbol, limit)
}
