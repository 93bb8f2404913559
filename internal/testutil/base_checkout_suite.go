package testutil

import (
	"context"
	"time"

	"github.com/recurly/checkout-pricing/internal/config"
	"github.com/recurly/checkout-pricing/internal/logger"
	"github.com/recurly/checkout-pricing/internal/validator"
	"github.com/stretchr/testify/suite"
)

// BaseCheckoutTestSuite provides common functionality for checkout test
// suites: a preloaded catalog, a test logger and a default config
type BaseCheckoutTestSuite struct {
	suite.Suite
	ctx     context.Context
	catalog *Catalog
	logger  *logger.Logger
	config  *config.Configuration
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseCheckoutTestSuite) SetupSuite() {
	validator.NewValidator()
	s.logger = logger.GetLogger()
	s.config = config.GetDefaultConfig()
}

// SetupTest is called before each test
func (s *BaseCheckoutTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.catalog = NewFixtureCatalog()
}

// GetContext returns a context with a per-test deadline
func (s *BaseCheckoutTestSuite) GetContext() context.Context {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	s.T().Cleanup(cancel)
	return ctx
}

// GetCatalog returns the suite's fixture catalog
func (s *BaseCheckoutTestSuite) GetCatalog() *Catalog {
	return s.catalog
}

// GetLogger returns the test logger
func (s *BaseCheckoutTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseCheckoutTestSuite) GetConfig() *config.Configuration {
	return s.config
}
