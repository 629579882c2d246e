package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/internal/scoringconfig"
)

func f64(v float64) *float64 { return &v }

func defaultRules() scoringconfig.Piotroski {
	return scoringconfig.Default().Piotroski
}

func mustSeries(t *testing.T, ticker string, years ...contracts.FinancialStatementYear) *contracts.StatementSeries {
	t.Helper()
	series, err := contracts.NewStatementSeries(ticker, years)
	require.NoError(t, err)
	return series
}

// healthyYear returns a fully reported year; tweak the result per test
func healthyYear(label string) contracts.FinancialStatementYear {
	return contracts.FinancialStatementYear{
		FiscalYear:         label,
		TotalAssets:        f64(1000),
		TotalLiabilities:   f64(600),
		NetIncome:          f64(50),
		OperatingCashFlow:  f64(80),
		CurrentAssets:      f64(300),
		CurrentLiabilities: f64(200),
		LongTermDebt:       f64(150),
		SharesOutstanding:  f64(100),
		GrossProfit:        f64(400),
		Revenue:            f64(1000),
	}
}
