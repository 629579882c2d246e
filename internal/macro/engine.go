package macro

import (
	"context"
	"fmt"
	"math"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/internal/scoringconfig"
	"github.com/wonny/finhealth/backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Engine computes the Buffett indicator for the configured countries
// ⭐ SSOT: 국가별 실패는 해당 항목만 error=true, 배치 전체는 실패하지 않음
type Engine struct {
	provider    contracts.MacroDataProvider
	countries   []contracts.Country
	concurrency int
	logger      *logger.Logger
}

// NewEngine creates a new Buffett indicator engine
func NewEngine(provider contracts.MacroDataProvider, cfg scoringconfig.Buffett, log *logger.Logger) *Engine {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		provider:    provider,
		countries:   cfg.Countries,
		concurrency: concurrency,
		logger:      log.WithComponent("buffett"),
	}
}

// Countries returns the configured country list
func (e *Engine) Countries() []contracts.Country {
	return e.countries
}

// Compute evaluates every country concurrently; output follows the configured order
func (e *Engine) Compute(ctx context.Context) *contracts.BuffettIndicatorResult {
	entries := make([]contracts.BuffettCountryEntry, len(e.countries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, country := range e.countries {
		g.Go(func() error {
			entries[i] = e.evaluateCountry(gctx, country)
			return nil
		})
	}
	_ = g.Wait() // 개별 실패는 entry에 기록됨

	return &contracts.BuffettIndicatorResult{Countries: entries}
}

func (e *Engine) evaluateCountry(ctx context.Context, country contracts.Country) contracts.BuffettCountryEntry {
	obs, err := e.provider.Observation(ctx, country)
	if err != nil {
		e.logger.WithError(err).WithField("country", country.Code).Warn("Macro observation unavailable")
		return ErrorEntry(country)
	}

	entry, err := Evaluate(country, obs)
	if err != nil {
		e.logger.WithError(err).WithField("country", country.Code).Warn("Buffett indicator not computable")
		return ErrorEntry(country)
	}

	e.logger.WithFields(map[string]interface{}{
		"country": country.Code,
		"ratio":   *entry.Ratio,
		"label":   entry.Label,
	}).Debug("Buffett indicator evaluated")

	return entry
}

// Evaluate classifies one observation. Pure.
func Evaluate(country contracts.Country, obs *contracts.MacroObservation) (contracts.BuffettCountryEntry, error) {
	if obs == nil {
		return contracts.BuffettCountryEntry{}, &contracts.MissingDataError{Field: "observation"}
	}
	if obs.MarketCap == nil {
		return contracts.BuffettCountryEntry{}, &contracts.MissingDataError{FiscalYear: obs.Year, Field: "market_cap"}
	}
	if obs.GDP == nil || *obs.GDP == 0 {
		return contracts.BuffettCountryEntry{}, &contracts.MissingDataError{FiscalYear: obs.Year, Field: "gdp"}
	}

	ratio, err := Ratio(*obs.MarketCap, *obs.GDP)
	if err != nil {
		return contracts.BuffettCountryEntry{}, fmt.Errorf("%s: %w", country.Code, err)
	}
	band := Classify(float64(ratio))

	return contracts.BuffettCountryEntry{
		Country:   country.Name,
		Code:      country.Code,
		Flag:      country.Flag,
		MarketCap: round2(*obs.MarketCap),
		GDP:       round2(*obs.GDP),
		Unit:      obs.Unit,
		Ratio:     &ratio,
		Color:     band.Color,
		ColorHex:  band.ColorHex,
		Label:     band.Label,
		Message:   band.Message,
		Source:    obs.Source,
		Year:      obs.Year,
		GDPYear:   obs.GDPYear,
	}, nil
}

// ErrorEntry is the placeholder for a country whose data is unavailable
func ErrorEntry(country contracts.Country) contracts.BuffettCountryEntry {
	return contracts.BuffettCountryEntry{
		Country: country.Name,
		Code:    country.Code,
		Flag:    country.Flag,
		Error:   true,
	}
}

// round2 rounds a display amount to 2 decimals; the ratio uses the raw value
func round2(v float64) *float64 {
	r := math.Round(v*100) / 100
	return &r
}
