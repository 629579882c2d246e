package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

func TestComputeRatios(t *testing.T) {
	cur := healthyYear("2023")
	prev := healthyYear("2022")
	prev.NetIncome = f64(30)
	prev.TotalAssets = f64(900)
	prev.SharesOutstanding = f64(80)

	rs := ComputeRatios("ACME", &cur, &prev)

	assert.Equal(t, "ACME", rs.Ticker)
	assert.Equal(t, "2023", rs.FiscalYear)
	assert.InDelta(t, 0.05, *rs.ROA, 1e-12)
	assert.InDelta(t, 30.0/900.0, *rs.ROAPrior, 1e-12)
	assert.InDelta(t, 0.4, *rs.GrossMargin, 1e-12)
	assert.InDelta(t, 1.0, *rs.AssetTurnover, 1e-12)
	assert.InDelta(t, 1.5, *rs.CurrentRatio, 1e-12)
	assert.InDelta(t, 0.15, *rs.LongTermDebtRatio, 1e-12)
	assert.InDelta(t, 150.0/400.0, *rs.DebtToEquity, 1e-12)
	assert.InDelta(t, 50.0/400.0, *rs.ROE, 1e-12)
	assert.InDelta(t, 0.05, *rs.NetMargin, 1e-12)
	assert.InDelta(t, 0.25, *rs.SharesOutstandingChange, 1e-12)
}

func TestComputeRatios_GuardsDenominators(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*contracts.FinancialStatementYear)
		check  func(*testing.T, *contracts.RatioSet)
	}{
		{
			name:   "zero total assets",
			mutate: func(y *contracts.FinancialStatementYear) { y.TotalAssets = f64(0) },
			check: func(t *testing.T, rs *contracts.RatioSet) {
				assert.Nil(t, rs.ROA)
				assert.Nil(t, rs.AssetTurnover)
				assert.Nil(t, rs.LongTermDebtRatio)
			},
		},
		{
			name:   "missing total assets",
			mutate: func(y *contracts.FinancialStatementYear) { y.TotalAssets = nil },
			check: func(t *testing.T, rs *contracts.RatioSet) {
				assert.Nil(t, rs.ROA)
				assert.Nil(t, rs.DebtToEquity)
			},
		},
		{
			name:   "zero revenue",
			mutate: func(y *contracts.FinancialStatementYear) { y.Revenue = f64(0) },
			check: func(t *testing.T, rs *contracts.RatioSet) {
				assert.Nil(t, rs.GrossMargin)
				assert.Nil(t, rs.NetMargin)
				require.NotNil(t, rs.AssetTurnover)
				assert.Equal(t, 0.0, *rs.AssetTurnover)
			},
		},
		{
			name:   "zero current liabilities",
			mutate: func(y *contracts.FinancialStatementYear) { y.CurrentLiabilities = f64(0) },
			check: func(t *testing.T, rs *contracts.RatioSet) {
				assert.Nil(t, rs.CurrentRatio)
			},
		},
		{
			name:   "negative equity",
			mutate: func(y *contracts.FinancialStatementYear) { y.TotalLiabilities = f64(1200) },
			check: func(t *testing.T, rs *contracts.RatioSet) {
				assert.Nil(t, rs.DebtToEquity)
				assert.Nil(t, rs.ROE)
			},
		},
		{
			name:   "zero equity",
			mutate: func(y *contracts.FinancialStatementYear) { y.TotalLiabilities = f64(1000) },
			check: func(t *testing.T, rs *contracts.RatioSet) {
				assert.Nil(t, rs.DebtToEquity)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := healthyYear("2023")
			tt.mutate(&y)
			tt.check(t, ComputeRatios("ACME", &y, nil))
		})
	}
}

func TestRatioCalculator_Calculate(t *testing.T) {
	calc := NewRatioCalculator(logger.Nop())

	y1 := healthyYear("2022")
	y2 := healthyYear("2023")
	y2.Revenue = nil

	result := calc.Calculate(mustSeries(t, "ACME", y2, y1))

	require.NotNil(t, result.Current)
	require.NotNil(t, result.Prior)
	assert.Equal(t, "2023", result.Current.FiscalYear)
	assert.Equal(t, "2022", result.Prior.FiscalYear)
	assert.Nil(t, result.InsufficientHistory)

	require.Len(t, result.Missing, 1)
	assert.Equal(t, "revenue", result.Missing[0].Field)
	assert.Equal(t, "2023", result.Missing[0].FiscalYear)
}

func TestRatioCalculator_ShortHistory(t *testing.T) {
	calc := NewRatioCalculator(logger.Nop())

	single := calc.Calculate(mustSeries(t, "NEW", healthyYear("2024")))
	assert.Nil(t, single.Prior)
	require.NotNil(t, single.InsufficientHistory)
	assert.Equal(t, 1, single.InsufficientHistory.Years)

	empty := calc.Calculate(mustSeries(t, "NONE"))
	require.NotNil(t, empty.Current)
	assert.Equal(t, "NONE", empty.Current.Ticker)
	assert.Equal(t, "", empty.Current.FiscalYear)
	assert.Nil(t, empty.Current.ROA)
}

func TestRatioCalculator_PriorUsesItsOwnPrior(t *testing.T) {
	calc := NewRatioCalculator(logger.Nop())

	y1 := healthyYear("2021")
	y1.NetIncome = f64(10)
	y2 := healthyYear("2022")
	y3 := healthyYear("2023")

	result := calc.Calculate(mustSeries(t, "ACME", y1, y2, y3))
	require.NotNil(t, result.Prior.ROAPrior)
	assert.InDelta(t, 0.01, *result.Prior.ROAPrior, 1e-12)
}
