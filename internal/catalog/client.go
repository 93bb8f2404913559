package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/recurly/checkout-pricing/internal/config"
	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/recurly/checkout-pricing/internal/logger"
)

// Client talks to the remote catalog service that serves plans,
// coupons, items and gift cards. Transient failures are retried with
// exponential backoff by the underlying retryable client.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
	log     *logger.Logger
}

// NewClient builds a catalog client from configuration
func NewClient(cfg *config.Configuration, log *logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Catalog.RetryMax
	rc.HTTPClient.Timeout = time.Duration(cfg.Catalog.TimeoutSecs) * time.Second
	rc.Logger = nil

	return &Client{
		http:    rc,
		baseURL: cfg.Catalog.BaseURL,
		apiKey:  cfg.Catalog.APIKey,
		log:     log,
	}
}

// get fetches a catalog resource and decodes the JSON response into out.
// A 404 maps to ErrNotFound so callers can distinguish a missing code
// from a transport failure.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Invalid catalog request").
			Mark(ierr.ErrHTTPClient)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Catalog service is unreachable").
			WithReportableDetails(map[string]any{"path": path}).
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not read catalog response").
			Mark(ierr.ErrHTTPClient)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ierr.NewErrorf("catalog resource %s not found", path).
			WithHint("The requested code does not exist").
			WithReportableDetails(map[string]any{"path": path}).
			Mark(ierr.ErrNotFound)
	case resp.StatusCode >= 400:
		return ierr.NewErrorf("catalog request failed with status %d", resp.StatusCode).
			WithHint("Catalog service returned an error").
			WithReportableDetails(map[string]any{
				"path":   path,
				"status": resp.StatusCode,
				"body":   string(body),
			}).
			Mark(ierr.ErrHTTPClient)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return ierr.WithError(err).
			WithHint("Catalog response is not valid JSON").
			WithReportableDetails(map[string]any{"path": path}).
			Mark(ierr.ErrSystem)
	}
	return nil
}

func cacheKey(kind, code string) string {
	return fmt.Sprintf("catalog:%s:%s", kind, code)
}
