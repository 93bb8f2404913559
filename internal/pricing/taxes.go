package pricing

import (
	"context"

	"github.com/sourcegraph/conc/pool"
	"github.com/recurly/checkout-pricing/internal/domain/tax"
	"github.com/recurly/checkout-pricing/internal/types"
	"github.com/shopspring/decimal"
)

// taxAmounts is the Tax Resolver's output for one reprice pass
type taxAmounts struct {
	now     decimal.Decimal
	next    decimal.Decimal
	entries []*tax.Entry // one per distinct rate actually applied
}

// taxGroup is one (jurisdiction, tax code) grouping. One external
// lookup is issued per group; the basis is the post-discount amount of
// the group's items for each cycle.
type taxGroup struct {
	request   *tax.Request
	nowBasis  decimal.Decimal
	nextBasis decimal.Decimal
}

// computeTaxes groups taxable items, resolves rates through the
// external collaborator and applies them to the discounted bases.
// Rounding is up at the cent.
func computeTaxes(
	ctx context.Context,
	resolver tax.Resolver,
	st *CheckoutState,
	ch *charges,
	disc discountAmounts,
) (*taxAmounts, error) {
	if st.TaxOverride != nil {
		// manual override bypasses lookup entirely
		return &taxAmounts{
			now:  st.TaxOverride.Now,
			next: st.TaxOverride.Next,
		}, nil
	}

	addr := st.taxAddress()
	if addr == nil {
		// no address, no taxes, no lookups
		return &taxAmounts{now: decimal.Zero, next: decimal.Zero}, nil
	}

	groups := buildTaxGroups(st, ch, disc, addr.Country, addr.PostalCode)
	if len(groups) == 0 {
		return &taxAmounts{now: decimal.Zero, next: decimal.Zero}, nil
	}

	type groupRates struct {
		group   *taxGroup
		entries []*tax.Entry
	}

	p := pool.NewWithResults[*groupRates]().WithContext(ctx)
	for _, g := range groups {
		g := g
		p.Go(func(ctx context.Context) (*groupRates, error) {
			entries, err := resolver.Lookup(ctx, g.request)
			if err != nil {
				return nil, err
			}
			return &groupRates{group: g, entries: entries}, nil
		})
	}
	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	out := &taxAmounts{now: decimal.Zero, next: decimal.Zero}
	seen := map[string]bool{}
	for _, res := range results {
		for _, entry := range res.entries {
			if entry.Rate.IsZero() {
				continue
			}
			out.now = out.now.Add(types.CeilCents(res.group.nowBasis.Mul(entry.Rate)))
			out.next = out.next.Add(types.CeilCents(res.group.nextBasis.Mul(entry.Rate)))
			if !seen[entry.Key()] {
				seen[entry.Key()] = true
				out.entries = append(out.entries, entry)
			}
		}
	}
	return out, nil
}

// buildTaxGroups buckets non-exempt items by tax code, with each item's
// own discount already subtracted so a scoped coupon never shrinks the
// basis of another group. The checkout's own tax code is the default
// bucket for items without one.
func buildTaxGroups(st *CheckoutState, ch *charges, disc discountAmounts, country, postalCode string) []*taxGroup {
	byKey := map[string]*taxGroup{}
	var ordered []*taxGroup

	group := func(taxCode string) *taxGroup {
		if taxCode == "" {
			taxCode = st.checkoutTaxCode()
		}
		req := &tax.Request{
			Country:    country,
			PostalCode: postalCode,
			VATNumber:  st.vatNumber(),
			TaxCode:    taxCode,
		}
		if g, ok := byKey[req.Key()]; ok {
			return g
		}
		g := &taxGroup{request: req, nowBasis: decimal.Zero, nextBasis: decimal.Zero}
		byKey[req.Key()] = g
		ordered = append(ordered, g)
		return g
	}

	for _, sc := range ch.subscriptions {
		if !sc.supported || sc.sub.TaxExempt() {
			continue
		}
		g := group(sc.sub.TaxCode())
		g.nowBasis = g.nowBasis.Add(sc.now().Sub(disc.subsNow[sc.sub.ID]))
		g.nextBasis = g.nextBasis.Add(sc.next().Sub(disc.subsNext[sc.sub.ID]))
	}
	for _, ac := range ch.adjustments {
		if !ac.supported || ac.adj.TaxExempt {
			continue
		}
		g := group(ac.adj.TaxCode)
		g.nowBasis = g.nowBasis.Add(ac.amount.Sub(disc.adjsNow[ac.adj.ID]))
	}
	// a credit adjustment can push a group below zero; the taxable
	// basis floors there
	for _, g := range ordered {
		g.nowBasis = types.MaxDecimal(decimal.Zero, g.nowBasis)
		g.nextBasis = types.MaxDecimal(decimal.Zero, g.nextBasis)
	}
	return ordered
}
