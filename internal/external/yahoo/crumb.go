package yahoo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/httputil"
)

const crumbPath = "/v1/test/getcrumb"

// WithCrumb enables the cookie+crumb handshake that quoteSummary requires.
// cookieURL issues the session cookie (fc.yahoo.com); empty disables it.
// The underlying httputil client must keep cookies (WithCookieJar).
func (c *Client) WithCrumb(cookieURL string) *Client {
	c.cookieURL = cookieURL
	return c
}

// crumb returns the cached crumb, running the handshake once if needed
func (c *Client) crumb(ctx context.Context) (string, error) {
	if c.cookieURL == "" {
		return "", nil
	}

	c.crumbMu.Lock()
	defer c.crumbMu.Unlock()

	if c.cachedCrumb != "" {
		return c.cachedCrumb, nil
	}

	// 쿠키 발급 엔드포인트는 404를 돌려주지만 Set-Cookie는 유효
	resp, err := c.httpClient.Get(ctx, c.cookieURL)
	if err != nil {
		return "", &contracts.ProviderUnavailableError{Provider: providerName, Entity: "session cookie", Err: err}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	crumb, err := c.httpClient.GetText(ctx, c.baseURL+crumbPath)
	if err != nil {
		return "", &contracts.ProviderUnavailableError{Provider: providerName, Entity: "crumb", Err: err}
	}
	if crumb == "" {
		return "", &contracts.ProviderUnavailableError{Provider: providerName, Entity: "crumb", Err: errors.New("empty crumb")}
	}

	c.cachedCrumb = crumb
	c.logger.Debug("Yahoo session crumb acquired")
	return crumb, nil
}

// resetCrumb drops a crumb the API rejected
func (c *Client) resetCrumb() {
	c.crumbMu.Lock()
	c.cachedCrumb = ""
	c.crumbMu.Unlock()
}

// getJSONWithCrumb signs the request with the session crumb.
// One 401 refreshes the crumb and retries; a second is ProviderUnavailable.
func (c *Client) getJSONWithCrumb(ctx context.Context, entity, host, path string, params url.Values, out interface{}) error {
	for attempt := 0; ; attempt++ {
		crumb, err := c.crumb(ctx)
		if err != nil {
			return err
		}

		signed := url.Values{}
		for k, v := range params {
			signed[k] = v
		}
		if crumb != "" {
			signed.Set("crumb", crumb)
		}

		err = c.getJSON(ctx, entity, buildURL(host, path, signed), out)
		if crumb == "" || attempt > 0 || !isUnauthorized(err) {
			return err
		}

		c.logger.WithField("entity", entity).Debug("Yahoo crumb rejected, refreshing")
		c.resetCrumb()
	}
}

func isUnauthorized(err error) bool {
	var statusErr *httputil.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}
