package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/httputil"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

const (
	providerName = "yahoo"

	defaultBaseURL       = "https://query2.finance.yahoo.com"
	defaultSearchBaseURL = "https://query1.finance.yahoo.com"
)

// Client handles communication with Yahoo Finance.
//
// quoteSummary answers 401 without a session cookie and crumb; enable the
// handshake with WithCrumb on a cookie-keeping httputil client. Without it
// a 401 surfaces as ProviderUnavailableError.
// ⭐ SSOT: Yahoo Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient    *httputil.Client
	logger        *logger.Logger
	baseURL       string
	searchBaseURL string
	now           func() time.Time

	cookieURL   string
	crumbMu     sync.Mutex
	cachedCrumb string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:    httpClient,
		logger:        log.WithComponent("yahoo"),
		baseURL:       defaultBaseURL,
		searchBaseURL: defaultSearchBaseURL,
		now:           time.Now,
	}
}

// WithBaseURLs overrides the API hosts (empty keeps the default)
func (c *Client) WithBaseURLs(baseURL, searchBaseURL string) *Client {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	if searchBaseURL != "" {
		c.searchBaseURL = strings.TrimRight(searchBaseURL, "/")
	}
	return c
}

// buildURL joins host, path and query
func buildURL(host, path string, params url.Values) string {
	fullURL := host + path
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}
	return fullURL
}

// getJSON decodes one Yahoo response and maps failures onto domain errors.
// 404 → ErrTickerNotFound, 그 외 전송/상태 오류 → ProviderUnavailableError
func (c *Client) getJSON(ctx context.Context, entity, fullURL string, out interface{}) error {
	err := c.httpClient.GetJSON(ctx, fullURL, out)
	if err == nil {
		return nil
	}

	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", entity, contracts.ErrTickerNotFound)
	}

	return &contracts.ProviderUnavailableError{Provider: providerName, Entity: entity, Err: err}
}

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// value returns nil for absent or empty wrappers
func (v *rawValue) value() *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}

// apiError is the error object embedded in Yahoo envelopes
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("yahoo api error %s: %s", e.Code, e.Description)
}

// notFound reports whether Yahoo flagged the symbol as unknown
func (e *apiError) notFound() bool {
	return e != nil && strings.EqualFold(e.Code, "Not Found")
}
