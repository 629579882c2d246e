package worldbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/httputil"
	"github.com/wonny/finhealth/backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// World Bank indicator codes
const (
	IndicatorMarketCap = "CM.MKT.LCAP.CD" // listed domestic companies, current US$
	IndicatorGDP       = "NY.GDP.MKTP.CD" // GDP, current US$
)

const (
	providerName   = "worldbank"
	defaultBaseURL = "https://api.worldbank.org/v2"

	// mostRecentValues is how many annual values are scanned for a non-null one
	mostRecentValues = 5

	trillion = 1e12
	unit     = "T$"
	source   = "World Bank"
)

// Client fetches macro indicators from the World Bank API
// ⭐ SSOT: World Bank API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new World Bank client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("worldbank"),
		baseURL:    defaultBaseURL,
	}
}

// WithBaseURL overrides the API host (empty keeps the default)
func (c *Client) WithBaseURL(baseURL string) *Client {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// indicatorValue is one annual data point; value is null for unpublished years
type indicatorValue struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// Latest is the most recent non-null, non-zero value of one indicator
type Latest struct {
	Value *float64
	Year  string
}

// Observation fetches market cap and GDP for country concurrently.
// Values are returned in trillions of US dollars.
//
// Both values come from the most recent year in which both series are
// published. Without a common year each series falls back to its own latest
// value and GDPYear carries the GDP year.
func (c *Client) Observation(ctx context.Context, country contracts.Country) (*contracts.MacroObservation, error) {
	var marketCap, gdp []indicatorValue

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.series(gctx, country.Code, IndicatorMarketCap)
		marketCap = v
		return err
	})
	g.Go(func() error {
		v, err := c.series(gctx, country.Code, IndicatorGDP)
		gdp = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mc, gd := alignYears(marketCap, gdp)

	obs := &contracts.MacroObservation{
		Country:   country.Name,
		Code:      country.Code,
		Flag:      country.Flag,
		MarketCap: toTrillions(mc.Value),
		GDP:       toTrillions(gd.Value),
		Unit:      unit,
		Source:    source,
		Year:      mc.Year,
	}
	if obs.Year == "" {
		obs.Year = gd.Year
	} else if gd.Year != "" && gd.Year != mc.Year {
		obs.GDPYear = gd.Year
	}

	c.logger.WithFields(map[string]interface{}{
		"country":    country.Code,
		"market_cap": mc.Value != nil,
		"gdp":        gd.Value != nil,
		"year":       obs.Year,
		"gdp_year":   obs.GDPYear,
	}).Debug("Fetched macro observation")

	return obs, nil
}

// alignYears picks the newest year present in both series (newest first).
// With no overlap each side keeps its own latest value.
func alignYears(marketCap, gdp []indicatorValue) (Latest, Latest) {
	gdpByYear := make(map[string]*float64, len(gdp))
	for _, v := range gdp {
		gdpByYear[v.Date] = v.Value
	}

	for _, v := range marketCap {
		if g, ok := gdpByYear[v.Date]; ok {
			return Latest{Value: v.Value, Year: v.Date}, Latest{Value: g, Year: v.Date}
		}
	}

	return latestOf(marketCap), latestOf(gdp)
}

func latestOf(values []indicatorValue) Latest {
	if len(values) == 0 {
		return Latest{}
	}
	return Latest{Value: values[0].Value, Year: values[0].Date}
}

// Indicator returns the latest published value of indicator for countryCode.
// A country with no published value yields a nil Value, not an error.
func (c *Client) Indicator(ctx context.Context, countryCode, indicator string) (Latest, error) {
	values, err := c.series(ctx, countryCode, indicator)
	if err != nil {
		return Latest{}, err
	}
	return latestOf(values), nil
}

// series returns the published values of indicator, newest first
func (c *Client) series(ctx context.Context, countryCode, indicator string) ([]indicatorValue, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("mrv", fmt.Sprintf("%d", mostRecentValues))
	params.Set("per_page", fmt.Sprintf("%d", mostRecentValues))

	fullURL := fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		c.baseURL, url.PathEscape(countryCode), url.PathEscape(indicator), params.Encode())

	entity := countryCode + " " + indicator

	// 응답은 [페이지 메타, 값 배열] 2원소 배열
	var body []json.RawMessage
	if err := c.httpClient.GetJSON(ctx, fullURL, &body); err != nil {
		return nil, &contracts.ProviderUnavailableError{Provider: providerName, Entity: entity, Err: err}
	}

	return parseIndicator(body)
}

// parseIndicator keeps the non-null, non-zero values (newest first)
func parseIndicator(body []json.RawMessage) ([]indicatorValue, error) {
	if len(body) < 2 {
		// 잘못된 국가 코드 등은 메시지 객체 하나만 반환
		return nil, nil
	}

	var values []indicatorValue
	if err := json.Unmarshal(body[1], &values); err != nil {
		return nil, fmt.Errorf("decode indicator values: %w", err)
	}

	published := make([]indicatorValue, 0, len(values))
	for _, v := range values {
		if v.Value != nil && *v.Value != 0 {
			published = append(published, v)
		}
	}
	return published, nil
}

func toTrillions(v *float64) *float64 {
	if v == nil {
		return nil
	}
	t := *v / trillion
	return &t
}
