package yahoo

import (
	"context"
	"strings"

	"github.com/wonny/finhealth/backend/internal/contracts"
	"golang.org/x/sync/errgroup"
)

// Snapshot gathers everything one analysis needs, fetching concurrently.
// Only the quote/profile request is required; the rest degrade to empty.
func (c *Client) Snapshot(ctx context.Context, symbol string) (*contracts.MarketSnapshot, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	snapshot := &contracts.MarketSnapshot{FetchedAt: c.now().UTC()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, quote, err := c.Summary(gctx, symbol)
		if err != nil {
			return err
		}
		snapshot.Profile = profile
		snapshot.Quote = quote
		return nil
	})

	g.Go(func() error {
		statements, err := c.Statements(gctx, symbol)
		if err != nil {
			c.softFail(symbol, "statements", err)
			return nil
		}
		snapshot.Statements = statements
		return nil
	})

	g.Go(func() error {
		prices, err := c.Prices(gctx, symbol)
		if err != nil {
			c.softFail(symbol, "prices", err)
			return nil
		}
		snapshot.Prices = prices
		return nil
	})

	g.Go(func() error {
		dividends, err := c.Dividends(gctx, symbol)
		if err != nil {
			c.softFail(symbol, "dividends", err)
			return nil
		}
		snapshot.Dividends = dividends
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"statements": len(snapshot.Statements),
		"prices":     len(snapshot.Prices),
		"dividends":  len(snapshot.Dividends),
	}).Info("Fetched market snapshot")

	return snapshot, nil
}

// softFail logs a non-essential sub-request failure
func (c *Client) softFail(symbol, part string, err error) {
	c.logger.WithError(err).WithFields(map[string]interface{}{
		"symbol": symbol,
		"part":   part,
	}).Warn("Snapshot part unavailable")
}
