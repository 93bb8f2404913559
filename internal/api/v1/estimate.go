package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recurly/checkout-pricing/internal/api/dto"
	ierr "github.com/recurly/checkout-pricing/internal/errors"
	"github.com/recurly/checkout-pricing/internal/logger"
	"github.com/recurly/checkout-pricing/internal/pricing"
	"github.com/recurly/checkout-pricing/internal/types"
)

// PricingFactory creates a fresh checkout for each estimate request
type PricingFactory func() *pricing.Pricing

type EstimateHandler struct {
	factory PricingFactory
	logger  *logger.Logger
}

func NewEstimateHandler(factory PricingFactory, logger *logger.Logger) *EstimateHandler {
	return &EstimateHandler{
		factory: factory,
		logger:  logger,
	}
}

// @Summary Estimate a checkout
// @Description Prices a full checkout and returns the itemized now/next amounts
// @Tags Estimates
// @Accept json
// @Produce json
// @Param estimate body dto.EstimateRequest true "Checkout to price"
// @Success 200 {object} dto.EstimateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /estimates [post]
func (h *EstimateHandler) CreateEstimate(c *gin.Context) {
	var req dto.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		NewErrorResponse(c, http.StatusBadRequest, "Invalid request payload", err)
		return
	}
	if err := req.Validate(); err != nil {
		NewErrorResponse(c, ierr.HTTPStatusFromErr(err), "Request validation failed", err)
		return
	}

	p := h.factory()
	defer p.Close()

	handles := applyEstimate(p, &req)
	for _, handle := range handles {
		if _, err := handle.Done(c.Request.Context()); err != nil {
			NewErrorResponse(c, ierr.HTTPStatusFromErr(err), "Could not price the checkout", err)
			return
		}
	}

	price, err := p.Reprice().Done(c.Request.Context())
	if err != nil {
		NewErrorResponse(c, ierr.HTTPStatusFromErr(err), "Tax lookup failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.EstimateResponse{Price: price})
}

// applyEstimate translates the request into the checkout's mutation
// order: structure first, then the currency pin, then everything whose
// validity depends on the resolved currency
func applyEstimate(p *pricing.Pricing, req *dto.EstimateRequest) []*pricing.PendingPrice {
	var handles []*pricing.PendingPrice

	for i, sub := range req.Subscriptions {
		id := sub.ID
		if i == 0 && id == "" {
			handles = append(handles, p.Plan(sub.PlanCode, &pricing.PlanParams{Quantity: sub.Quantity}))
		} else {
			if id == "" {
				id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION)
			}
			handles = append(handles, p.Subscription(sub.PlanCode, &pricing.SubscriptionParams{
				ID:       id,
				Quantity: sub.Quantity,
			}))
		}
		for _, addon := range sub.Addons {
			handles = append(handles, p.Addon(addon.Code, &pricing.AddonParams{
				Quantity:       addon.Quantity,
				SubscriptionID: id,
			}))
		}
		if sub.Coupon != "" {
			handles = append(handles, p.Coupon(sub.Coupon, &pricing.CouponParams{SubscriptionID: id}))
		}
	}

	if req.Currency != "" {
		handles = append(handles, p.Currency(req.Currency))
	}
	if req.Address != nil {
		handles = append(handles, p.Address(toAddress(req.Address)))
	}
	if req.ShippingAddress != nil {
		handles = append(handles, p.ShippingAddress(toAddress(req.ShippingAddress)))
	}
	if req.Tax != nil {
		params := &pricing.TaxParams{
			TaxCode:   req.Tax.TaxCode,
			VATNumber: req.Tax.VATNumber,
		}
		if req.Tax.Amount != nil {
			params.Amount = &pricing.TaxAmountParams{
				Now:  req.Tax.Amount.Now,
				Next: req.Tax.Amount.Next,
			}
		}
		handles = append(handles, p.Tax(params))
	}

	for _, adj := range req.Adjustments {
		params := &pricing.AdjustmentParams{
			ItemCode:   adj.ItemCode,
			UnitAmount: adj.UnitAmount,
			Quantity:   adj.Quantity,
			TaxExempt:  adj.TaxExempt,
		}
		if adj.Description != "" {
			params.Description = &adj.Description
		}
		if adj.Currency != "" {
			params.Currency = &adj.Currency
		}
		if adj.TaxCode != "" {
			params.TaxCode = &adj.TaxCode
		}
		handles = append(handles, p.Adjustment(params))
	}

	if req.Coupon != "" {
		handles = append(handles, p.Coupon(req.Coupon, nil))
	}
	if req.GiftCard != "" {
		handles = append(handles, p.GiftCard(req.GiftCard))
	}
	return handles
}

func toAddress(in *dto.AddressInput) *pricing.AddressParams {
	return &pricing.AddressParams{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Street:     in.Street,
		City:       in.City,
		Region:     in.Region,
		Country:    in.Country,
		PostalCode: in.PostalCode,
	}
}
