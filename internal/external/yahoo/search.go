package yahoo

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/wonny/finhealth/backend/internal/contracts"
)

// DefaultSearchLimit caps autocomplete results
const DefaultSearchLimit = 5

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
	News []struct {
		Title               string `json:"title"`
		Link                string `json:"link"`
		Publisher           string `json:"publisher"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

func (c *Client) search(ctx context.Context, entity, query string, quotes, news int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(quotes))
	params.Set("newsCount", strconv.Itoa(news))

	var resp searchResponse
	if err := c.getJSON(ctx, entity, buildURL(c.searchBaseURL, "/v1/finance/search", params), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search returns up to limit ticker matches for a name or symbol fragment
func (c *Client) Search(ctx context.Context, query string, limit int) ([]contracts.SearchResult, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	resp, err := c.search(ctx, "search "+query, query, limit, 0)
	if err != nil {
		return nil, err
	}

	results := make([]contracts.SearchResult, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		results = append(results, contracts.SearchResult{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: q.Exchange,
			Type:     q.QuoteType,
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// News returns recent headlines mentioning symbol
func (c *Client) News(ctx context.Context, symbol string, limit int) ([]contracts.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}

	resp, err := c.search(ctx, "news "+symbol, symbol, 0, limit)
	if err != nil {
		return nil, err
	}

	items := make([]contracts.NewsItem, 0, len(resp.News))
	for _, n := range resp.News {
		if n.Title == "" {
			continue
		}
		items = append(items, contracts.NewsItem{
			Title:       n.Title,
			URL:         n.Link,
			Publisher:   n.Publisher,
			PublishedAt: time.Unix(n.ProviderPublishTime, 0).UTC(),
		})
	}
	return items, nil
}
