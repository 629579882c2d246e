package analysis

import (
	"fmt"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/internal/scoringconfig"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

// Criterion labels, in output order
const (
	CriterionROAPositive       = "ROA positive"
	CriterionOCFPositive       = "Operating cash flow positive"
	CriterionROAImproving      = "ROA improving"
	CriterionEarningsQuality   = "Quality of earnings (OCF > net income)"
	CriterionLeverageDown      = "Long-term debt ratio not increasing"
	CriterionLiquidityUp       = "Current ratio improving"
	CriterionNoDilution        = "No new shares issued"
	CriterionGrossMarginUp     = "Gross margin improving"
	CriterionAssetTurnoverUp   = "Asset turnover improving"
	shortHistoryInterpretation = " No prior fiscal year was available, so every year-over-year criterion scored 0."
)

var tierInterpretations = map[contracts.PiotroskiTier]string{
	contracts.TierSolid:   "Financially solid: the company passes most of the nine health tests.",
	contracts.TierAverage: "Average: mixed signals, review the failing criteria before investing.",
	contracts.TierWeak:    "Weak: few health tests pass and the financial signals call for caution.",
}

// PiotroskiScorer applies the nine F-Score tests
// ⭐ SSOT: Piotroski 9개 기준 판정은 여기서만
type PiotroskiScorer struct {
	rules  scoringconfig.Piotroski
	logger *logger.Logger
}

// NewPiotroskiScorer creates a new scorer
func NewPiotroskiScorer(rules scoringconfig.Piotroski, log *logger.Logger) *PiotroskiScorer {
	return &PiotroskiScorer{
		rules:  rules,
		logger: log,
	}
}

// Score evaluates current against prior; prior may be nil
func (s *PiotroskiScorer) Score(current, prior *contracts.RatioSet) contracts.PiotroskiScore {
	score := ScorePiotroski(current, prior, s.rules)

	s.logger.WithFields(map[string]interface{}{
		"ticker":      score.Ticker,
		"fiscal_year": score.FiscalPeriod,
		"total_score": score.TotalScore,
		"tier":        score.Tier,
		"has_prior":   prior != nil,
	}).Debug("Calculated Piotroski score")

	return score
}

// ScorePiotroski is the pure scoring function.
// Missing inputs fail their criterion; without a prior year every
// year-over-year criterion scores 0 and the score stays out of 9.
func ScorePiotroski(current, prior *contracts.RatioSet, rules scoringconfig.Piotroski) contracts.PiotroskiScore {
	if current == nil {
		current = &contracts.RatioSet{}
	}
	p := prior
	if p == nil {
		p = &contracts.RatioSet{}
	}

	improved := func(cur, prev *float64) bool {
		if prior == nil || cur == nil || prev == nil {
			return false
		}
		if rules.AllowEqualImprovement {
			return *cur >= *prev
		}
		return *cur > *prev
	}
	notIncreased := func(cur, prev *float64) bool {
		if prior == nil || cur == nil || prev == nil {
			return false
		}
		return *cur <= *prev
	}
	positive := func(v *float64) bool {
		return v != nil && *v > 0
	}

	// ROA(n-1): prior RatioSet 우선
	roaPrior := firstNonNil(p.ROA, current.ROAPrior)
	if prior == nil {
		roaPrior = nil
	}

	profitability := []contracts.PiotroskiCriterion{
		criterion(CriterionROAPositive, positive(current.ROA),
			fmt.Sprintf("ROA: %s", formatPercent(current.ROA))),
		criterion(CriterionOCFPositive, positive(current.OperatingCashFlow),
			fmt.Sprintf("Operating cash flow: %s", formatAmount(current.OperatingCashFlow))),
		criterion(CriterionROAImproving, improved(current.ROA, roaPrior),
			fmt.Sprintf("ROA: %s vs %s (n-1)", formatPercent(current.ROA), formatPercent(roaPrior))),
		criterion(CriterionEarningsQuality, greater(current.OperatingCashFlow, current.NetIncome),
			fmt.Sprintf("OCF: %s vs net income: %s", formatAmount(current.OperatingCashFlow), formatAmount(current.NetIncome))),
	}

	leverage := []contracts.PiotroskiCriterion{
		criterion(CriterionLeverageDown, notIncreased(current.LongTermDebtRatio, p.LongTermDebtRatio),
			fmt.Sprintf("Long-term debt ratio: %s vs %s (n-1)", formatPercent(current.LongTermDebtRatio), formatPercent(p.LongTermDebtRatio))),
		criterion(CriterionLiquidityUp, improved(current.CurrentRatio, p.CurrentRatio),
			fmt.Sprintf("Current ratio: %s vs %s (n-1)", formatRatio(current.CurrentRatio), formatRatio(p.CurrentRatio))),
		criterion(CriterionNoDilution, notIncreased(current.SharesOutstanding, p.SharesOutstanding),
			fmt.Sprintf("Shares outstanding: %s vs %s (n-1)", formatAmount(current.SharesOutstanding), formatAmount(p.SharesOutstanding))),
	}

	operating := []contracts.PiotroskiCriterion{
		criterion(CriterionGrossMarginUp, improved(current.GrossMargin, p.GrossMargin),
			fmt.Sprintf("Gross margin: %s vs %s (n-1)", formatPercent(current.GrossMargin), formatPercent(p.GrossMargin))),
		criterion(CriterionAssetTurnoverUp, improved(current.AssetTurnover, p.AssetTurnover),
			fmt.Sprintf("Asset turnover: %s vs %s (n-1)", formatRatio(current.AssetTurnover), formatRatio(p.AssetTurnover))),
	}

	score := contracts.PiotroskiScore{
		Ticker:        current.Ticker,
		FiscalPeriod:  current.FiscalYear,
		Profitability: profitability,
		Leverage:      leverage,
		Operating:     operating,
	}
	score.TotalScore = score.SumCriteria()
	score.Tier = ClassifyTier(score.TotalScore, rules)
	score.Interpretation = tierInterpretations[score.Tier]
	if prior == nil {
		score.Interpretation += shortHistoryInterpretation
	}

	return score
}

// ClassifyTier maps a total score to its tier
func ClassifyTier(total int, rules scoringconfig.Piotroski) contracts.PiotroskiTier {
	switch {
	case total >= rules.SolidMinScore:
		return contracts.TierSolid
	case total >= rules.AverageMinScore:
		return contracts.TierAverage
	default:
		return contracts.TierWeak
	}
}

func criterion(label string, passed bool, detail string) contracts.PiotroskiCriterion {
	c := contracts.PiotroskiCriterion{Criterion: label, Detail: detail}
	if passed {
		c.Score = 1
	}
	return c
}

// greater is a strict same-year comparison; missing inputs fail
func greater(a, b *float64) bool {
	return a != nil && b != nil && *a > *b
}
