package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/recurly/checkout-pricing/internal/domain/tax"
)

// StaticTaxResolver implements tax.Resolver with a fixed rate table
// keyed by country (and optionally postal code). It counts lookups so
// tests can assert grouping behavior.
type StaticTaxResolver struct {
	mu      sync.RWMutex
	rates   map[string][]*tax.Entry
	lookups atomic.Int64
	err     error
}

func NewStaticTaxResolver() *StaticTaxResolver {
	return &StaticTaxResolver{
		rates: make(map[string][]*tax.Entry),
	}
}

// AddRate registers the entries returned for a country, country|postal
// or country|postal|taxCode key. Registering a key with no entries
// makes that bucket untaxed.
func (r *StaticTaxResolver) AddRate(key string, entries ...*tax.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[key] = entries
}

// Fail makes every subsequent lookup return err
func (r *StaticTaxResolver) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Lookups returns how many lookups have been issued
func (r *StaticTaxResolver) Lookups() int64 {
	return r.lookups.Load()
}

func (r *StaticTaxResolver) Lookup(_ context.Context, req *tax.Request) ([]*tax.Entry, error) {
	r.lookups.Add(1)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	if req.TaxCode != "" {
		if entries, ok := r.rates[req.Country+"|"+req.PostalCode+"|"+req.TaxCode]; ok {
			return entries, nil
		}
	}
	if entries, ok := r.rates[req.Country+"|"+req.PostalCode]; ok {
		return entries, nil
	}
	return r.rates[req.Country], nil
}
