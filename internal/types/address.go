package types

// Address carries the jurisdiction-relevant fields of a billing or
// shipping address. Only country and postal code participate in tax
// rate lookups; the rest is passed through for completeness.
type Address struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// HasJurisdiction reports whether the address carries enough
// information to issue a tax rate lookup
func (a *Address) HasJurisdiction() bool {
	return a != nil && a.Country != ""
}

// Clone returns a copy of the address
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	copied := *a
	return &copied
}
