package analysis

import (
	"sort"
	"time"

	"github.com/wonny/finhealth/backend/internal/contracts"
)

const (
	// DividendHistoryYears is the look-back window for dividend history
	DividendHistoryYears = 5

	dateLayout = "2006-01-02"
)

// BuildPriceHistory converts provider bars into chart points, oldest first
func BuildPriceHistory(bars []contracts.PriceBar) []contracts.HistoricalPricePoint {
	points := make([]contracts.HistoricalPricePoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, contracts.HistoricalPricePoint{
			Date:   b.Date.Format(dateLayout),
			Price:  roundTo(b.Close, 2),
			Volume: b.Volume,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// BuildDividendHistory keeps the last payment of each calendar year
// within DividendHistoryYears of now
func BuildDividendHistory(payments []contracts.DividendPayment, now time.Time) []contracts.DividendPoint {
	cutoff := now.AddDate(-DividendHistoryYears, 0, 0)

	lastByYear := make(map[int]contracts.DividendPayment)
	for _, p := range payments {
		if p.Date.Before(cutoff) {
			continue
		}
		year := p.Date.Year()
		if cur, ok := lastByYear[year]; !ok || p.Date.After(cur.Date) {
			lastByYear[year] = p
		}
	}

	points := make([]contracts.DividendPoint, 0, len(lastByYear))
	for year, p := range lastByYear {
		points = append(points, contracts.DividendPoint{
			Year:   year,
			Amount: roundTo(p.Amount, 2),
			Date:   p.Date.Format(dateLayout),
		})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Year < points[j].Year
	})
	return points
}

// BuildProfitMarginHistory returns net income (billions) and net margin (%)
// per fiscal year. Years without revenue or net income are skipped.
func BuildProfitMarginHistory(series *contracts.StatementSeries) []contracts.ProfitMarginPoint {
	points := make([]contracts.ProfitMarginPoint, 0, series.Len())
	for _, y := range series.Years() {
		if y.NetIncome == nil || y.Revenue == nil {
			continue
		}

		margin := 0.0
		if m := safeDiv(y.NetIncome, y.Revenue); m != nil {
			margin = *m * PercentScale
		}

		points = append(points, contracts.ProfitMarginPoint{
			Year:      y.FiscalYear,
			NetIncome: roundTo(*y.NetIncome/MarketCapScale, 2),
			Margin:    roundTo(margin, 2),
		})
	}
	return points
}
