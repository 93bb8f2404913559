package dto

import (
	"github.com/recurly/checkout-pricing/internal/pricing"
	"github.com/recurly/checkout-pricing/internal/validator"
	"github.com/shopspring/decimal"
)

// EstimateRequest describes a full checkout to price in one shot
type EstimateRequest struct {
	Currency        string              `json:"currency,omitempty" validate:"omitempty,currency_code"`
	Subscriptions   []SubscriptionInput `json:"subscriptions,omitempty" validate:"dive"`
	Adjustments     []AdjustmentInput   `json:"adjustments,omitempty" validate:"dive"`
	Coupon          string              `json:"coupon,omitempty"`
	GiftCard        string              `json:"gift_card,omitempty"`
	Address         *AddressInput       `json:"address,omitempty"`
	ShippingAddress *AddressInput       `json:"shipping_address,omitempty"`
	Tax             *TaxInput           `json:"tax,omitempty"`
}

// SubscriptionInput describes one subscription within the checkout
type SubscriptionInput struct {
	ID       string       `json:"id,omitempty"`
	PlanCode string       `json:"plan_code" validate:"required"`
	Quantity int          `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	Addons   []AddonInput `json:"addons,omitempty" validate:"dive"`
	Coupon   string       `json:"coupon,omitempty"`
}

// AddonInput attaches a plan addon to its subscription
type AddonInput struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity,omitempty" validate:"omitempty,gte=1"`
}

// AdjustmentInput describes a one-time charge. Either an item code or a
// unit amount must be present.
type AdjustmentInput struct {
	ItemCode    string           `json:"item_code,omitempty"`
	Description string           `json:"description,omitempty"`
	UnitAmount  *decimal.Decimal `json:"unit_amount,omitempty"`
	Quantity    *int             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Currency    string           `json:"currency,omitempty" validate:"omitempty,currency_code"`
	TaxExempt   *bool            `json:"tax_exempt,omitempty"`
	TaxCode     string           `json:"tax_code,omitempty"`
}

// AddressInput carries the jurisdiction fields used for tax lookup
type AddressInput struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country,omitempty" validate:"omitempty,len=2"`
	PostalCode string `json:"postal_code,omitempty"`
}

// TaxInput carries checkout-level tax attributes or a manual override
type TaxInput struct {
	TaxCode   string          `json:"tax_code,omitempty"`
	VATNumber string          `json:"vat_number,omitempty"`
	Amount    *TaxAmountInput `json:"amount,omitempty"`
}

// TaxAmountInput overrides computed tax for both cycles
type TaxAmountInput struct {
	Now  float64 `json:"now"`
	Next float64 `json:"next"`
}

func (r *EstimateRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// EstimateResponse wraps the itemized price of the checkout
type EstimateResponse struct {
	Price *pricing.Price `json:"price"`
}
