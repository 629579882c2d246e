package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/finhealth/backend/internal/contracts"
)

// summaryModules are the quoteSummary modules needed for quote and profile
var summaryModules = []string{
	"price",
	"summaryDetail",
	"defaultKeyStatistics",
	"financialData",
	"assetProfile",
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	Price struct {
		Symbol                     string    `json:"symbol"`
		ShortName                  string    `json:"shortName"`
		LongName                   string    `json:"longName"`
		Currency                   string    `json:"currency"`
		ExchangeName               string    `json:"exchangeName"`
		RegularMarketPrice         *rawValue `json:"regularMarketPrice"`
		RegularMarketPreviousClose *rawValue `json:"regularMarketPreviousClose"`
		RegularMarketVolume        *rawValue `json:"regularMarketVolume"`
		MarketCap                  *rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail struct {
		TrailingPE       *rawValue `json:"trailingPE"`
		DividendYield    *rawValue `json:"dividendYield"`
		Beta             *rawValue `json:"beta"`
		FiftyTwoWeekHigh *rawValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  *rawValue `json:"fiftyTwoWeekLow"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		TrailingEps *rawValue `json:"trailingEps"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		ReturnOnEquity *rawValue `json:"returnOnEquity"`
		CurrentRatio   *rawValue `json:"currentRatio"`
		ProfitMargins  *rawValue `json:"profitMargins"`
	} `json:"financialData"`
	AssetProfile struct {
		Sector string `json:"sector"`
	} `json:"assetProfile"`
}

// Summary fetches the quote and company profile for symbol
func (c *Client) Summary(ctx context.Context, symbol string) (contracts.CompanyProfile, contracts.Quote, error) {
	params := url.Values{}
	params.Set("modules", strings.Join(summaryModules, ","))

	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)

	var resp quoteSummaryResponse
	if err := c.getJSONWithCrumb(ctx, "quote "+symbol, c.baseURL, path, params, &resp); err != nil {
		return contracts.CompanyProfile{}, contracts.Quote{}, err
	}

	if resp.QuoteSummary.Error.notFound() || (resp.QuoteSummary.Error == nil && len(resp.QuoteSummary.Result) == 0) {
		return contracts.CompanyProfile{}, contracts.Quote{}, fmt.Errorf("quote %s: %w", symbol, contracts.ErrTickerNotFound)
	}
	if resp.QuoteSummary.Error != nil {
		return contracts.CompanyProfile{}, contracts.Quote{}, &contracts.ProviderUnavailableError{
			Provider: providerName,
			Entity:   "quote " + symbol,
			Err:      resp.QuoteSummary.Error,
		}
	}

	profile, quote := toProfileAndQuote(symbol, resp.QuoteSummary.Result[0])
	return profile, quote, nil
}

func toProfileAndQuote(symbol string, r quoteSummaryResult) (contracts.CompanyProfile, contracts.Quote) {
	name := r.Price.LongName
	if name == "" {
		name = r.Price.ShortName
	}

	ticker := r.Price.Symbol
	if ticker == "" {
		ticker = strings.ToUpper(symbol)
	}

	profile := contracts.CompanyProfile{
		Symbol:   ticker,
		Name:     name,
		Sector:   r.AssetProfile.Sector,
		Market:   r.Price.ExchangeName,
		Currency: r.Price.Currency,
	}

	quote := contracts.Quote{
		Price:          r.Price.RegularMarketPrice.value(),
		PreviousClose:  r.Price.RegularMarketPreviousClose.value(),
		Volume:         r.Price.RegularMarketVolume.value(),
		MarketCap:      r.Price.MarketCap.value(),
		PERatio:        r.SummaryDetail.TrailingPE.value(),
		DividendYield:  r.SummaryDetail.DividendYield.value(),
		EPS:            r.DefaultKeyStatistics.TrailingEps.value(),
		Beta:           r.SummaryDetail.Beta.value(),
		High52W:        r.SummaryDetail.FiftyTwoWeekHigh.value(),
		Low52W:         r.SummaryDetail.FiftyTwoWeekLow.value(),
		ReturnOnEquity: r.FinancialData.ReturnOnEquity.value(),
		CurrentRatio:   r.FinancialData.CurrentRatio.value(),
		ProfitMargin:   r.FinancialData.ProfitMargins.value(),
	}

	return profile, quote
}
