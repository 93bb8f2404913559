package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/recurly/checkout-pricing/internal/config"
	"github.com/recurly/checkout-pricing/internal/domain/tax"
	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/recurly/checkout-pricing/internal/httpclient"
	"github.com/recurly/checkout-pricing/internal/logger"
)

// taxResolver resolves jurisdiction tax rates from the remote tax
// service. Rate lookups sit on the reprice hot path, so transient
// failures are retried with exponential backoff before surfacing as an
// error.tax event.
type taxResolver struct {
	client   httpclient.Client
	baseURL  string
	apiKey   string
	retryMax uint64
	log      *logger.Logger
}

// NewTaxResolver builds a tax.Resolver from configuration
func NewTaxResolver(cfg *config.Configuration, log *logger.Logger) tax.Resolver {
	return &taxResolver{
		client:   httpclient.NewDefaultClient(time.Duration(cfg.Catalog.TimeoutSecs) * time.Second),
		baseURL:  cfg.Catalog.BaseURL,
		apiKey:   cfg.Catalog.APIKey,
		retryMax: uint64(cfg.Catalog.TaxRetryMax),
		log:      log,
	}
}

func (r *taxResolver) Lookup(ctx context.Context, req *tax.Request) ([]*tax.Entry, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not encode tax lookup request").
			Mark(ierr.ErrSystem)
	}

	headers := map[string]string{"Accept": "application/json"}
	if r.apiKey != "" {
		headers["Authorization"] = "Bearer " + r.apiKey
	}

	var entries []*tax.Entry
	operation := func() error {
		resp, err := r.client.Send(ctx, &httpclient.Request{
			Method:  http.MethodPost,
			URL:     r.baseURL + "/tax/rates",
			Headers: headers,
			Body:    body,
		})
		if err != nil {
			if httpErr, ok := httpclient.IsHTTPError(err); ok && !httpErr.Retryable() {
				return backoff.Permanent(err)
			}
			return err
		}

		entries = entries[:0]
		if err := json.Unmarshal(resp.Body, &entries); err != nil {
			return backoff.Permanent(ierr.WithError(err).
				WithHint("Tax service response is not valid JSON").
				Mark(ierr.ErrSystem))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.retryMax), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		r.log.Warnw("tax rate lookup failed",
			"country", req.Country,
			"postal_code", req.PostalCode,
			"error", err)
		return nil, err
	}
	return entries, nil
}
