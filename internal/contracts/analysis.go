package contracts

// RatioSet holds derived ratios for one fiscal year
// ⭐ SSOT: RatioCalculator 출력 (저장하지 않음)
type RatioSet struct {
	Ticker     string `json:"ticker"`
	FiscalYear string `json:"fiscal_year"`

	ROA                     *float64 `json:"roa"`
	ROAPrior                *float64 `json:"roa_prior"`
	NetIncome               *float64 `json:"net_income"`
	OperatingCashFlow       *float64 `json:"operating_cash_flow"`
	GrossMargin             *float64 `json:"gross_margin"`
	AssetTurnover           *float64 `json:"asset_turnover"`
	CurrentRatio            *float64 `json:"current_ratio"`
	DebtToEquity            *float64 `json:"debt_to_equity"`
	LongTermDebtRatio       *float64 `json:"long_term_debt_ratio"`
	SharesOutstanding       *float64 `json:"shares_outstanding"`
	SharesOutstandingChange *float64 `json:"shares_outstanding_change"`
	ROE                     *float64 `json:"roe"`
	NetMargin               *float64 `json:"net_margin"`
}

// PiotroskiCriterion is one binary test with its numeric evidence
type PiotroskiCriterion struct {
	Criterion string `json:"criterion"`
	Score     int    `json:"score"` // 0 or 1
	Detail    string `json:"detail"`
}

// Passed reports whether the criterion earned its point
func (c PiotroskiCriterion) Passed() bool {
	return c.Score == 1
}

// PiotroskiTier classifies a total score
type PiotroskiTier string

const (
	TierSolid   PiotroskiTier = "solid"
	TierAverage PiotroskiTier = "average"
	TierWeak    PiotroskiTier = "weak"
)

// PiotroskiMaxScore is the fixed denominator of the F-Score
const PiotroskiMaxScore = 9

// PiotroskiScore is the explainable 9-point F-Score
// ⭐ SSOT: total_score == 모든 criterion score 합계, 항상 9점 만점
type PiotroskiScore struct {
	Ticker       string `json:"-"`
	FiscalPeriod string `json:"-"`

	TotalScore     int                  `json:"total_score"`
	Tier           PiotroskiTier        `json:"tier"`
	Profitability  []PiotroskiCriterion `json:"profitability"`
	Leverage       []PiotroskiCriterion `json:"leverage"`
	Operating      []PiotroskiCriterion `json:"operating"`
	Interpretation string               `json:"interpretation"`
}

// Criteria returns all criteria in group order
func (p *PiotroskiScore) Criteria() []PiotroskiCriterion {
	out := make([]PiotroskiCriterion, 0, PiotroskiMaxScore)
	out = append(out, p.Profitability...)
	out = append(out, p.Leverage...)
	out = append(out, p.Operating...)
	return out
}

// SumCriteria recomputes the total from the individual criteria
func (p *PiotroskiScore) SumCriteria() int {
	sum := 0
	for _, c := range p.Criteria() {
		sum += c.Score
	}
	return sum
}

// KpiSet is the flat, display-ready metric set
// nil은 "데이터 없음" (0과 구분)
type KpiSet struct {
	Ticker       string `json:"-"`
	FiscalPeriod string `json:"-"`

	CurrentPrice  *float64 `json:"current_price"`
	PriceChange   *float64 `json:"price_change"`   // %, signed
	MarketCap     *float64 `json:"market_cap"`     // billions
	PERatio       *float64 `json:"pe_ratio"`
	DividendYield *float64 `json:"dividend_yield"` // %
	Volume        *float64 `json:"volume"`         // millions
	Beta          *float64 `json:"beta"`
	EPS           *float64 `json:"eps"`
	High52W       *float64 `json:"high_52w"`
	Low52W        *float64 `json:"low_52w"`
	ROE           *float64 `json:"roe"` // %
	DebtToEquity  *float64 `json:"debt_to_equity"`
	CurrentRatio  *float64 `json:"current_ratio"`
	ProfitMargin  *float64 `json:"profit_margin"` // %
}

// HistoricalPricePoint is one chart point
type HistoricalPricePoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`
}

// DividendPoint is the last dividend paid in a calendar year
type DividendPoint struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// ProfitMarginPoint is net income and net margin for one fiscal year
type ProfitMarginPoint struct {
	Year      string  `json:"year"`
	NetIncome float64 `json:"net_income"` // billions
	Margin    float64 `json:"margin"`     // %
}

// AnalysisResult is the per-request aggregate returned to callers
// ⭐ SSOT: 분석 응답 계약
type AnalysisResult struct {
	Ticker              string                 `json:"ticker"`
	Name                string                 `json:"name"`
	Sector              string                 `json:"sector"`
	Market              string                 `json:"market"`
	Currency            string                 `json:"currency"`
	FiscalPeriod        string                 `json:"fiscal_period"`
	Kpis                KpiSet                 `json:"kpis"`
	PiotroskiScore      PiotroskiScore         `json:"piotroski_score"`
	HistoricalData      []HistoricalPricePoint `json:"historical_data"`
	DividendHistory     []DividendPoint        `json:"dividend_history"`
	ProfitMarginHistory []ProfitMarginPoint    `json:"profit_margin_history"`
}
