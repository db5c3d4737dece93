// Package remote provides a client for the external event-listing service.
//
// The client is stateless: one network call per invocation, no retries.
// Failures are reported through the domain error taxonomy so the sync
// coordinator can decide whether a cache fallback is appropriate:
// network failures (transport), service failures (non-2xx status), and
// decode failures (payload shape mismatch) are each distinguishable.
package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/meetlogapp/meetlog-server/internal/config"
	"github.com/meetlogapp/meetlog-server/internal/errors"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRPS     = 1.0
	defaultBurst   = 3

	// Listing page size bounds enforced by the service.
	maxPageSize = 100
)

// Client is a rate-limited listing service client.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a new listing service client.
func NewClient(cfg config.RemoteConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = defaultBurst
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// doRequest executes a GET request with rate limiting and maps transport and
// status failures to the domain error taxonomy.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Network("rate limit wait interrupted").WithCause(err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Internal("create request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "MeetLog/1.0")

	c.logger.Debug("listing service request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Network("listing service unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network("read response").WithCause(err)
	}

	switch {
	case resp.StatusCode/100 == 2:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFound("listing service: not found")
	default:
		return nil, errors.Service(
			fmt.Sprintf("listing service returned status %d", resp.StatusCode),
			resp.StatusCode,
		)
	}
}
