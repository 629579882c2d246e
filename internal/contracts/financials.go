package contracts

import (
	"fmt"
	"sort"
	"strconv"
)

// FinancialStatementYear is one fiscal year of reported figures
// ⭐ SSOT: 연간 재무제표 한 해 분량 (nil = 미보고)
type FinancialStatementYear struct {
	FiscalYear         string   `json:"fiscal_year"` // "2023"
	TotalAssets        *float64 `json:"total_assets"`
	TotalLiabilities   *float64 `json:"total_liabilities"`
	NetIncome          *float64 `json:"net_income"`
	OperatingCashFlow  *float64 `json:"operating_cash_flow"`
	CurrentAssets      *float64 `json:"current_assets"`
	CurrentLiabilities *float64 `json:"current_liabilities"`
	LongTermDebt       *float64 `json:"long_term_debt"`
	SharesOutstanding  *float64 `json:"shares_outstanding"`
	GrossProfit        *float64 `json:"gross_profit"`
	Revenue            *float64 `json:"revenue"`
}

// Equity returns total assets minus total liabilities, nil when either is missing
func (y *FinancialStatementYear) Equity() *float64 {
	if y.TotalAssets == nil || y.TotalLiabilities == nil {
		return nil
	}
	eq := *y.TotalAssets - *y.TotalLiabilities
	return &eq
}

// StatementSeries is an ordered, immutable view over a company's fiscal years
// ⭐ SSOT: 요청마다 새로 생성, 생성 후 변경 불가 (오름차순 정렬 보장)
type StatementSeries struct {
	ticker string
	years  []FinancialStatementYear
}

// NewStatementSeries validates and sorts the given years ascending.
// Duplicate or empty fiscal year labels are rejected.
func NewStatementSeries(ticker string, years []FinancialStatementYear) (*StatementSeries, error) {
	seen := make(map[string]bool, len(years))
	sorted := make([]FinancialStatementYear, 0, len(years))

	for _, y := range years {
		if y.FiscalYear == "" {
			return nil, fmt.Errorf("statement series %s: empty fiscal year label", ticker)
		}
		if seen[y.FiscalYear] {
			return nil, fmt.Errorf("statement series %s: duplicate fiscal year %s", ticker, y.FiscalYear)
		}
		seen[y.FiscalYear] = true
		sorted = append(sorted, y)
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return fiscalYearLess(sorted[i].FiscalYear, sorted[j].FiscalYear)
	})

	return &StatementSeries{ticker: ticker, years: sorted}, nil
}

// fiscalYearLess orders numeric labels numerically, anything else lexically
func fiscalYearLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}

// Ticker returns the symbol the series belongs to
func (s *StatementSeries) Ticker() string {
	return s.ticker
}

// Len returns the number of fiscal years
func (s *StatementSeries) Len() int {
	return len(s.years)
}

// Years returns a copy of the fiscal years, oldest first
func (s *StatementSeries) Years() []FinancialStatementYear {
	out := make([]FinancialStatementYear, len(s.years))
	copy(out, s.years)
	return out
}

// At returns the i-th year (0 = oldest)
func (s *StatementSeries) At(i int) *FinancialStatementYear {
	if i < 0 || i >= len(s.years) {
		return nil
	}
	y := s.years[i]
	return &y
}

// Latest returns the most recent fiscal year, nil for an empty series
func (s *StatementSeries) Latest() *FinancialStatementYear {
	return s.At(len(s.years) - 1)
}

// Prior returns the year before Latest, nil when unavailable
func (s *StatementSeries) Prior() *FinancialStatementYear {
	return s.At(len(s.years) - 2)
}

// HasHistory reports whether year-over-year comparisons are possible
func (s *StatementSeries) HasHistory() bool {
	return len(s.years) >= MinHistoryYears
}

// Period returns the fiscal year label of Latest ("" when empty)
func (s *StatementSeries) Period() string {
	if latest := s.Latest(); latest != nil {
		return latest.FiscalYear
	}
	return ""
}

// MinHistoryYears is the number of fiscal years needed for year-over-year tests
const MinHistoryYears = 2
