package analysis

import (
	"github.com/wonny/finhealth/backend/internal/contracts"
)

// ResponseParts are the partial results combined into one AnalysisResult
type ResponseParts struct {
	Profile       contracts.CompanyProfile
	Series        *contracts.StatementSeries
	Ratios        *contracts.RatioSet
	Score         *contracts.PiotroskiScore
	Kpis          *contracts.KpiSet
	Prices        []contracts.HistoricalPricePoint
	Dividends     []contracts.DividendPoint
	ProfitMargins []contracts.ProfitMarginPoint
}

// BuildAnalysisResponse validates that every part refers to the same ticker
// and fiscal period, then assembles the result.
// ⭐ SSOT: 불일치 시 DataIntegrityError (fatal)
func BuildAnalysisResponse(parts ResponseParts) (*contracts.AnalysisResult, error) {
	if parts.Series == nil || parts.Ratios == nil || parts.Score == nil || parts.Kpis == nil {
		return nil, &contracts.DataIntegrityError{Component: "response", Field: "parts", Want: "complete", Got: "partial"}
	}

	ticker := parts.Series.Ticker()
	period := parts.Series.Period()

	checks := []struct {
		component, field, got, want string
	}{
		{"ratios", "ticker", parts.Ratios.Ticker, ticker},
		{"ratios", "fiscal_period", parts.Ratios.FiscalYear, period},
		{"piotroski", "ticker", parts.Score.Ticker, ticker},
		{"piotroski", "fiscal_period", parts.Score.FiscalPeriod, period},
		{"kpis", "ticker", parts.Kpis.Ticker, ticker},
		{"kpis", "fiscal_period", parts.Kpis.FiscalPeriod, period},
	}
	for _, c := range checks {
		if c.got != c.want {
			return nil, &contracts.DataIntegrityError{Component: c.component, Field: c.field, Want: c.want, Got: c.got}
		}
	}

	result := &contracts.AnalysisResult{
		Ticker:              ticker,
		Name:                parts.Profile.Name,
		Sector:              parts.Profile.Sector,
		Market:              parts.Profile.Market,
		Currency:            parts.Profile.Currency,
		FiscalPeriod:        period,
		Kpis:                *parts.Kpis,
		PiotroskiScore:      *parts.Score,
		HistoricalData:      nonNil(parts.Prices),
		DividendHistory:     nonNil(parts.Dividends),
		ProfitMarginHistory: nonNil(parts.ProfitMargins),
	}
	return result, nil
}

// nonNil keeps empty histories serialized as [] instead of null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
