package yahoo

import (
	"context"
	"net/url"
	"sort"
	"time"

	"github.com/wonny/finhealth/backend/internal/contracts"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
	Events struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
}

// fetchChart calls the chart endpoint; a missing result is an empty chart
func (c *Client) fetchChart(ctx context.Context, entity, symbol string, params url.Values) (*chartResult, error) {
	fullURL := buildURL(c.baseURL, "/v8/finance/chart/"+url.PathEscape(symbol), params)

	var resp chartResponse
	if err := c.getJSON(ctx, entity, fullURL, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil && !resp.Chart.Error.notFound() {
		return nil, &contracts.ProviderUnavailableError{Provider: providerName, Entity: entity, Err: resp.Chart.Error}
	}
	if len(resp.Chart.Result) == 0 {
		c.logger.WithField("symbol", symbol).Warn("No chart data returned")
		return &chartResult{}, nil
	}
	return &resp.Chart.Result[0], nil
}

// Prices fetches one year of daily closes
func (c *Client) Prices(ctx context.Context, symbol string) ([]contracts.PriceBar, error) {
	params := url.Values{}
	params.Set("range", "1y")
	params.Set("interval", "1d")

	chart, err := c.fetchChart(ctx, "prices "+symbol, symbol, params)
	if err != nil {
		return nil, err
	}

	return parsePriceBars(chart), nil
}

// Dividends fetches five years of cash dividend events
func (c *Client) Dividends(ctx context.Context, symbol string) ([]contracts.DividendPayment, error) {
	params := url.Values{}
	params.Set("range", "5y")
	params.Set("interval", "1d")
	params.Set("events", "div")

	chart, err := c.fetchChart(ctx, "dividends "+symbol, symbol, params)
	if err != nil {
		return nil, err
	}

	return parseDividends(chart), nil
}

func parsePriceBars(chart *chartResult) []contracts.PriceBar {
	if len(chart.Indicators.Quote) == 0 {
		return []contracts.PriceBar{}
	}
	quote := chart.Indicators.Quote[0]

	bars := make([]contracts.PriceBar, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		// Yahoo sometimes returns null values
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}

		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		bars = append(bars, contracts.PriceBar{
			Date:   time.Unix(ts, 0).UTC(),
			Close:  *quote.Close[i],
			Volume: volume,
		})
	}
	return bars
}

func parseDividends(chart *chartResult) []contracts.DividendPayment {
	payments := make([]contracts.DividendPayment, 0, len(chart.Events.Dividends))
	for _, d := range chart.Events.Dividends {
		payments = append(payments, contracts.DividendPayment{
			Date:   time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].Date.Before(payments[j].Date)
	})
	return payments
}
