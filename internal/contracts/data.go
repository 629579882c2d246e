package contracts

import "time"

// Quote is a point-in-time market snapshot for one ticker
// ⭐ SSOT: 시세 스냅샷 (nil = 제공처 미제공)
type Quote struct {
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previous_close"`
	Volume        *float64 `json:"volume"`
	MarketCap     *float64 `json:"market_cap"`
	PERatio       *float64 `json:"pe_ratio"`
	DividendYield *float64 `json:"dividend_yield"` // fraction, 0.0052 = 0.52%
	EPS           *float64 `json:"eps"`
	Beta          *float64 `json:"beta"`
	High52W       *float64 `json:"high_52w"`
	Low52W        *float64 `json:"low_52w"`

	// Provider-reported fallbacks, used only when statements cannot produce the figure
	ReturnOnEquity *float64 `json:"return_on_equity"` // fraction
	CurrentRatio   *float64 `json:"current_ratio"`
	ProfitMargin   *float64 `json:"profit_margin"` // fraction
}

// CompanyProfile holds descriptive company metadata
type CompanyProfile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Market   string `json:"market"`
	Currency string `json:"currency"`
}

// PriceBar is one daily close from the provider
type PriceBar struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// DividendPayment is one cash dividend event
type DividendPayment struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// MarketSnapshot is everything the analysis needs from the market data provider
// ⭐ SSOT: 시장 데이터 제공처 → 분석 엔진 입력
type MarketSnapshot struct {
	Profile    CompanyProfile           `json:"profile"`
	Quote      Quote                    `json:"quote"`
	Statements []FinancialStatementYear `json:"statements"`
	Dividends  []DividendPayment        `json:"dividends"`
	Prices     []PriceBar               `json:"prices"`
	FetchedAt  time.Time                `json:"fetched_at"`
}

// SearchResult is one ticker lookup hit
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
	Type     string `json:"type,omitempty"`
}

// NewsItem is one headline related to a ticker
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Publisher   string    `json:"publisher"`
	PublishedAt time.Time `json:"published_at"`
}
