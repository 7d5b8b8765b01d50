// Package scrape fetches exposition text from the exporter's metrics
// endpoint and turns it into a snapshot.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rcosmos/metricaudit/internal/domain"
	"github.com/rcosmos/metricaudit/internal/exposition"
)

const defaultTimeout = 10 * time.Second

// Client implements ports.MetricsSource over a plain-text HTTP endpoint.
type Client struct {
	url string
	hc  *http.Client
}

// New builds a client for the given metrics URL. A nil http.Client gets a
// 10s timeout default.
func New(metricsURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{url: strings.TrimRight(metricsURL, "/"), hc: hc}
}

// Snapshot fetches the endpoint and parses its body. The result is a
// consistent point-in-time view; callers must not mix it with values from
// other snapshots.
func (c *Client) Snapshot(ctx context.Context) (exposition.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: metrics request failed: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: metrics status %s", domain.ErrUnavailable, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: metrics read failed: %v", domain.ErrUnavailable, err)
	}
	return exposition.Parse(string(body)), nil
}
