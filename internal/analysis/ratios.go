package analysis

import (
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

// RatioResult is the calculator output for the latest fiscal year
type RatioResult struct {
	Current *contracts.RatioSet
	Prior   *contracts.RatioSet // nil when the series has a single year

	// Soft diagnostics: never abort the analysis
	Missing             []*contracts.MissingDataError
	InsufficientHistory *contracts.InsufficientHistoryError
}

// RatioCalculator derives point-in-time and year-over-year ratios
// ⭐ SSOT: 재무 비율 계산은 여기서만
type RatioCalculator struct {
	logger *logger.Logger
}

// NewRatioCalculator creates a new ratio calculator
func NewRatioCalculator(log *logger.Logger) *RatioCalculator {
	return &RatioCalculator{
		logger: log,
	}
}

// Calculate computes ratios for the latest year and, when available, the year before it
func (c *RatioCalculator) Calculate(series *contracts.StatementSeries) *RatioResult {
	result := &RatioResult{}

	latest := series.Latest()
	prior := series.Prior()

	if latest == nil {
		result.Current = &contracts.RatioSet{Ticker: series.Ticker()}
	} else {
		var priorOfPrior *contracts.FinancialStatementYear
		if series.Len() >= 3 {
			priorOfPrior = series.At(series.Len() - 3)
		}

		result.Current = ComputeRatios(series.Ticker(), latest, prior)
		result.Missing = append(result.Missing, missingFields(latest)...)

		if prior != nil {
			result.Prior = ComputeRatios(series.Ticker(), prior, priorOfPrior)
			result.Missing = append(result.Missing, missingFields(prior)...)
		}
	}

	if !series.HasHistory() {
		result.InsufficientHistory = &contracts.InsufficientHistoryError{
			Ticker:   series.Ticker(),
			Years:    series.Len(),
			Required: contracts.MinHistoryYears,
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":        series.Ticker(),
		"fiscal_year":   result.Current.FiscalYear,
		"years":         series.Len(),
		"missing_count": len(result.Missing),
	}).Debug("Calculated ratios")

	return result
}

// ComputeRatios derives one year's ratios; prev may be nil
func ComputeRatios(ticker string, cur, prev *contracts.FinancialStatementYear) *contracts.RatioSet {
	rs := &contracts.RatioSet{
		Ticker:            ticker,
		FiscalYear:        cur.FiscalYear,
		ROA:               safeDiv(cur.NetIncome, cur.TotalAssets),
		NetIncome:         cur.NetIncome,
		OperatingCashFlow: cur.OperatingCashFlow,
		GrossMargin:       safeDiv(cur.GrossProfit, cur.Revenue),
		AssetTurnover:     safeDiv(cur.Revenue, cur.TotalAssets),
		CurrentRatio:      safeDiv(cur.CurrentAssets, cur.CurrentLiabilities),
		LongTermDebtRatio: safeDiv(cur.LongTermDebt, cur.TotalAssets),
		SharesOutstanding: cur.SharesOutstanding,
		NetMargin:         safeDiv(cur.NetIncome, cur.Revenue),
	}

	// 자본잠식(equity <= 0)이면 D/E, ROE 모두 null
	if equity := cur.Equity(); equity != nil && *equity > 0 {
		rs.DebtToEquity = safeDiv(cur.LongTermDebt, equity)
		rs.ROE = safeDiv(cur.NetIncome, equity)
	}

	if prev != nil {
		rs.ROAPrior = safeDiv(prev.NetIncome, prev.TotalAssets)
		if cur.SharesOutstanding != nil && prev.SharesOutstanding != nil {
			rs.SharesOutstandingChange = safeDiv(ptr(*cur.SharesOutstanding-*prev.SharesOutstanding), prev.SharesOutstanding)
		}
	}

	return rs
}

// missingFields lists the unreported inputs of one fiscal year
func missingFields(y *contracts.FinancialStatementYear) []*contracts.MissingDataError {
	fields := []struct {
		name  string
		value *float64
	}{
		{"total_assets", y.TotalAssets},
		{"total_liabilities", y.TotalLiabilities},
		{"net_income", y.NetIncome},
		{"operating_cash_flow", y.OperatingCashFlow},
		{"current_assets", y.CurrentAssets},
		{"current_liabilities", y.CurrentLiabilities},
		{"long_term_debt", y.LongTermDebt},
		{"shares_outstanding", y.SharesOutstanding},
		{"gross_profit", y.GrossProfit},
		{"revenue", y.Revenue},
	}

	var missing []*contracts.MissingDataError
	for _, f := range fields {
		if f.value == nil {
			missing = append(missing, &contracts.MissingDataError{FiscalYear: y.FiscalYear, Field: f.name})
		}
	}
	return missing
}
