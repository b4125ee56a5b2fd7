package telemetry

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

// NewRelicClient wraps the New Relic agent. Disabled instances are valid and
// every method on them is a no-op.
type NewRelicClient struct {
	app     *newrelic.Application
	logger  logging.Logger
	enabled bool
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	LicenseKey string
	AppName    string
}

// NewNewRelicClient creates a New Relic client. With no license key the
// client is created disabled.
func NewNewRelicClient(cfg NewRelicConfig, logger logging.Logger) (*NewRelicClient, error) {
	if cfg.LicenseKey == "" {
		logger.Info("New Relic disabled (no license key configured)")
		return &NewRelicClient{logger: logger}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	logger.Info("New Relic client initialized", logging.NewField("app_name", cfg.AppName))
	return &NewRelicClient{app: app, logger: logger, enabled: true}, nil
}

// Middleware records one New Relic transaction per request. A no-op when the
// client is disabled.
func (c *NewRelicClient) Middleware() gin.HandlerFunc {
	if !c.enabled {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return nrgin.Middleware(c.app)
}

// Shutdown flushes pending telemetry.
func (c *NewRelicClient) Shutdown(timeout time.Duration) {
	if c.enabled {
		c.app.Shutdown(timeout)
	}
}
