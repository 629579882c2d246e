package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/finhealth/backend/internal/contracts"
)

// StatementHistoryYears is how far back annual statements are requested
const StatementHistoryYears = 6

// statementFields maps timeseries types onto FinancialStatementYear setters
// ⭐ SSOT: Yahoo 연간 재무 항목 ↔ 도메인 필드 매핑
var statementFields = map[string]func(*contracts.FinancialStatementYear, *float64){
	"annualTotalAssets":                         func(y *contracts.FinancialStatementYear, v *float64) { y.TotalAssets = v },
	"annualTotalLiabilitiesNetMinorityInterest": func(y *contracts.FinancialStatementYear, v *float64) { y.TotalLiabilities = v },
	"annualNetIncome":                           func(y *contracts.FinancialStatementYear, v *float64) { y.NetIncome = v },
	"annualOperatingCashFlow":                   func(y *contracts.FinancialStatementYear, v *float64) { y.OperatingCashFlow = v },
	"annualCurrentAssets":                       func(y *contracts.FinancialStatementYear, v *float64) { y.CurrentAssets = v },
	"annualCurrentLiabilities":                  func(y *contracts.FinancialStatementYear, v *float64) { y.CurrentLiabilities = v },
	"annualLongTermDebt":                        func(y *contracts.FinancialStatementYear, v *float64) { y.LongTermDebt = v },
	"annualOrdinarySharesNumber":                func(y *contracts.FinancialStatementYear, v *float64) { y.SharesOutstanding = v },
	"annualGrossProfit":                         func(y *contracts.FinancialStatementYear, v *float64) { y.GrossProfit = v },
	"annualTotalRevenue":                        func(y *contracts.FinancialStatementYear, v *float64) { y.Revenue = v },
}

type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *apiError                    `json:"error"`
	} `json:"timeseries"`
}

type timeseriesMeta struct {
	Type []string `json:"type"`
}

type timeseriesPoint struct {
	AsOfDate      string    `json:"asOfDate"`
	ReportedValue *rawValue `json:"reportedValue"`
}

// Statements fetches annual statement figures, one entry per fiscal year.
// Fiscal years are labelled by the year of the period end date.
func (c *Client) Statements(ctx context.Context, symbol string) ([]contracts.FinancialStatementYear, error) {
	types := make([]string, 0, len(statementFields))
	for t := range statementFields {
		types = append(types, t)
	}
	sort.Strings(types)

	now := c.now()
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("type", strings.Join(types, ","))
	params.Set("period1", strconv.FormatInt(now.AddDate(-StatementHistoryYears, 0, 0).Unix(), 10))
	params.Set("period2", strconv.FormatInt(now.Unix(), 10))

	fullURL := buildURL(c.baseURL, "/ws/fundamentals-timeseries/v1/finance/timeseries/"+url.PathEscape(symbol), params)

	var resp timeseriesResponse
	if err := c.getJSON(ctx, "statements "+symbol, fullURL, &resp); err != nil {
		return nil, err
	}
	if resp.Timeseries.Error != nil {
		return nil, &contracts.ProviderUnavailableError{Provider: providerName, Entity: "statements " + symbol, Err: resp.Timeseries.Error}
	}

	return parseTimeseries(resp.Timeseries.Result)
}

// parseTimeseries merges per-field series into per-period statements, oldest first.
// Periods are keyed by their end date; the label is the calendar year, or the
// full end date when an earlier period already took that year (52/53-week filers).
func parseTimeseries(results []map[string]json.RawMessage) ([]contracts.FinancialStatementYear, error) {
	byDate := make(map[string]*contracts.FinancialStatementYear)

	for _, r := range results {
		var meta timeseriesMeta
		if raw, ok := r["meta"]; ok {
			if err := json.Unmarshal(raw, &meta); err != nil {
				return nil, fmt.Errorf("decode timeseries meta: %w", err)
			}
		}
		if len(meta.Type) == 0 {
			continue
		}

		field := meta.Type[0]
		set, known := statementFields[field]
		raw, present := r[field]
		if !known || !present {
			continue
		}

		// 값 배열에 null 항목이 섞여 옴
		var points []*timeseriesPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			return nil, fmt.Errorf("decode timeseries %s: %w", field, err)
		}

		for _, p := range points {
			if p == nil || len(p.AsOfDate) < 4 {
				continue
			}
			period, ok := byDate[p.AsOfDate]
			if !ok {
				period = &contracts.FinancialStatementYear{}
				byDate[p.AsOfDate] = period
			}
			set(period, p.ReportedValue.value())
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	used := make(map[string]bool, len(dates))
	years := make([]contracts.FinancialStatementYear, 0, len(dates))
	for _, d := range dates {
		label := d[:4]
		if used[label] {
			label = d
		}
		used[label] = true

		y := *byDate[d]
		y.FiscalYear = label
		years = append(years, y)
	}

	return years, nil
}
