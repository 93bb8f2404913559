package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/recurly/checkout-pricing/internal/api/dto"
	"github.com/recurly/checkout-pricing/internal/pricing"
	"github.com/recurly/checkout-pricing/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type EstimateHandlerSuite struct {
	testutil.BaseCheckoutTestSuite
	router *gin.Engine
}

func TestEstimateHandler(t *testing.T) {
	suite.Run(t, new(EstimateHandlerSuite))
}

func (s *EstimateHandlerSuite) SetupTest() {
	s.BaseCheckoutTestSuite.SetupTest()

	cat := s.GetCatalog()
	factory := func() *pricing.Pricing {
		return pricing.New(pricing.Params{
			Logger:       s.GetLogger(),
			Config:       s.GetConfig(),
			PlanRepo:     cat.Plans,
			CouponRepo:   cat.Coupons,
			GiftCardRepo: cat.GiftCards,
			ItemRepo:     cat.Items,
			TaxResolver:  cat.Taxes,
		})
	}

	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.POST("/v1/estimates", NewEstimateHandler(factory, s.GetLogger()).CreateEstimate)
}

func (s *EstimateHandlerSuite) estimate(req *dto.EstimateRequest) *httptest.ResponseRecorder {
	body, err := json.Marshal(req)
	s.Require().NoError(err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/estimates", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, r)
	return w
}

func (s *EstimateHandlerSuite) TestFullCheckout() {
	amount := decimal.RequireFromString("10.00")
	w := s.estimate(&dto.EstimateRequest{
		Subscriptions: []dto.SubscriptionInput{
			{PlanCode: "basic"},
		},
		Adjustments: []dto.AdjustmentInput{
			{UnitAmount: &amount},
		},
		Coupon: "coop",
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.EstimateResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().NotNil(resp.Price)

	s.Equal("USD", resp.Price.Currency.Code)
	s.Equal("20.00", resp.Price.Now.Discount)
	s.Equal("11.99", resp.Price.Now.Total)
	s.Equal("0.00", resp.Price.Next.Total)
}

func (s *EstimateHandlerSuite) TestSubscriptionWithAddonsAndTax() {
	w := s.estimate(&dto.EstimateRequest{
		Subscriptions: []dto.SubscriptionInput{
			{PlanCode: "basic", Addons: []dto.AddonInput{{Code: "support", Quantity: 2}}},
		},
		Address: &dto.AddressInput{Country: "US", PostalCode: "94110"},
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var resp dto.EstimateResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	s.Equal("10.00", resp.Price.Now.Addons)
	s.Equal("31.99", resp.Price.Now.Subtotal)
	// 8.75% of 31.99, rounded up at the cent
	s.Equal("2.80", resp.Price.Now.Tax)
}

func (s *EstimateHandlerSuite) TestUnknownPlanReturnsNotFound() {
	w := s.estimate(&dto.EstimateRequest{
		Subscriptions: []dto.SubscriptionInput{{PlanCode: "no-such-plan"}},
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *EstimateHandlerSuite) TestUnsupportedCurrencyRejected() {
	w := s.estimate(&dto.EstimateRequest{
		Currency:      "GBP",
		Subscriptions: []dto.SubscriptionInput{{PlanCode: "basic"}},
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *EstimateHandlerSuite) TestMalformedCurrencyFailsValidation() {
	w := s.estimate(&dto.EstimateRequest{
		Currency:      "DOLLARS",
		Subscriptions: []dto.SubscriptionInput{{PlanCode: "basic"}},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EstimateHandlerSuite) TestMissingPlanCodeFailsValidation() {
	w := s.estimate(&dto.EstimateRequest{
		Subscriptions: []dto.SubscriptionInput{{Quantity: 2}},
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *EstimateHandlerSuite) TestMalformedBody() {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/estimates", bytes.NewReader([]byte("{not-json")))
	r.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, r)
	s.Equal(http.StatusBadRequest, w.Code)
}
