package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

func buildParts(t *testing.T) ResponseParts {
	t.Helper()
	series := mustSeries(t, "ACME", healthyYear("2022"), healthyYear("2023"))
	ratios := NewRatioCalculator(logger.Nop()).Calculate(series)
	score := ScorePiotroski(ratios.Current, ratios.Prior, defaultRules())
	kpis := AssembleKpis(sampleQuote(), ratios.Current)

	return ResponseParts{
		Profile: contracts.CompanyProfile{Symbol: "ACME", Name: "Acme Corp", Sector: "Industrials", Market: "NYSE", Currency: "USD"},
		Series:  series,
		Ratios:  ratios.Current,
		Score:   &score,
		Kpis:    &kpis,
	}
}

func TestBuildAnalysisResponse(t *testing.T) {
	parts := buildParts(t)

	result, err := BuildAnalysisResponse(parts)
	require.NoError(t, err)

	assert.Equal(t, "ACME", result.Ticker)
	assert.Equal(t, "Acme Corp", result.Name)
	assert.Equal(t, "Industrials", result.Sector)
	assert.Equal(t, "NYSE", result.Market)
	assert.Equal(t, "USD", result.Currency)
	assert.Equal(t, "2023", result.FiscalPeriod)
	assert.Equal(t, parts.Score.TotalScore, result.PiotroskiScore.TotalScore)

	// 빈 이력은 [] 로 직렬화
	assert.NotNil(t, result.HistoricalData)
	assert.NotNil(t, result.DividendHistory)
	assert.NotNil(t, result.ProfitMarginHistory)
}

func TestBuildAnalysisResponse_IntegrityMismatch(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ResponseParts)
		component string
		field     string
	}{
		{"ratios ticker", func(p *ResponseParts) { p.Ratios.Ticker = "OTHER" }, "ratios", "ticker"},
		{"ratios period", func(p *ResponseParts) { p.Ratios.FiscalYear = "2022" }, "ratios", "fiscal_period"},
		{"score ticker", func(p *ResponseParts) { p.Score.Ticker = "OTHER" }, "piotroski", "ticker"},
		{"score period", func(p *ResponseParts) { p.Score.FiscalPeriod = "2021" }, "piotroski", "fiscal_period"},
		{"kpis ticker", func(p *ResponseParts) { p.Kpis.Ticker = "OTHER" }, "kpis", "ticker"},
		{"kpis period", func(p *ResponseParts) { p.Kpis.FiscalPeriod = "" }, "kpis", "fiscal_period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := buildParts(t)
			tt.mutate(&parts)

			result, err := BuildAnalysisResponse(parts)
			assert.Nil(t, result)

			var integrityErr *contracts.DataIntegrityError
			require.True(t, errors.As(err, &integrityErr))
			assert.Equal(t, tt.component, integrityErr.Component)
			assert.Equal(t, tt.field, integrityErr.Field)
		})
	}
}

func TestBuildAnalysisResponse_MissingParts(t *testing.T) {
	parts := buildParts(t)
	parts.Kpis = nil

	_, err := BuildAnalysisResponse(parts)

	var integrityErr *contracts.DataIntegrityError
	assert.True(t, errors.As(err, &integrityErr))
}
