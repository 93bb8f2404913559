package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/recurly/checkout-pricing/internal/api"
	v1 "github.com/recurly/checkout-pricing/internal/api/v1"
	"github.com/recurly/checkout-pricing/internal/cache"
	"github.com/recurly/checkout-pricing/internal/catalog"
	"github.com/recurly/checkout-pricing/internal/config"
	"github.com/recurly/checkout-pricing/internal/domain/coupon"
	"github.com/recurly/checkout-pricing/internal/domain/giftcard"
	"github.com/recurly/checkout-pricing/internal/domain/item"
	"github.com/recurly/checkout-pricing/internal/domain/plan"
	"github.com/recurly/checkout-pricing/internal/domain/tax"
	"github.com/recurly/checkout-pricing/internal/logger"
	"github.com/recurly/checkout-pricing/internal/pricing"
	"github.com/recurly/checkout-pricing/internal/validator"
	"go.uber.org/fx"
)

// @title Checkout Pricing API
// @version 1.0
// @description Checkout pricing estimation service
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC

	// .env is optional; real deployments configure via environment
	_ = godotenv.Load()
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Catalog
			catalog.NewClient,
			catalog.NewPlanRepository,
			catalog.NewCouponRepository,
			catalog.NewGiftCardRepository,
			catalog.NewItemRepository,
			catalog.NewTaxResolver,

			providePricingFactory,
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)
	app.Run()
}

func providePricingFactory(
	cfg *config.Configuration,
	log *logger.Logger,
	planRepo plan.Repository,
	couponRepo coupon.Repository,
	giftCardRepo giftcard.Repository,
	itemRepo item.Repository,
	taxResolver tax.Resolver,
) v1.PricingFactory {
	return func() *pricing.Pricing {
		return pricing.New(pricing.Params{
			Logger:       log,
			Config:       cfg,
			PlanRepo:     planRepo,
			CouponRepo:   couponRepo,
			GiftCardRepo: giftCardRepo,
			ItemRepo:     itemRepo,
			TaxResolver:  taxResolver,
		})
	}
}

func provideHandlers(
	factory v1.PricingFactory,
	log *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(log),
		Estimate: v1.NewEstimateHandler(factory, log),
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
