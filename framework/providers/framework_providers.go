package providers

import (
	"context"

	"go.uber.org/zap"

	"github.com/linkstash/linkstash/framework/config"
	"github.com/linkstash/linkstash/framework/container"
	gohttp "github.com/linkstash/linkstash/framework/http"
	"github.com/linkstash/linkstash/framework/logging"
	"github.com/linkstash/linkstash/framework/routing"
)

// Identities of the framework core services.
const (
	ConfigService container.Identity = "config"
	LoggerService container.Identity = "logger"
	RouterService container.Identity = "router"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and the
// environment and registers it as the "config" singleton.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles := p.EnvFiles
	return app.Register(ConfigService, container.Provide(
		func(_ context.Context, _ container.Resolver) (any, error) {
			return config.Load(envFiles...), nil
		},
	), container.Singleton, container.WithMetadata("framework/config"))
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider registers the zap logger as the "logger" singleton.
// Its disposer flushes buffered entries at container teardown.
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	return app.Register(LoggerService, container.Provide(
		func(ctx context.Context, r container.Resolver) (any, error) {
			cfg, err := container.ResolveAs[*config.Config](ctx, r, ConfigService)
			if err != nil {
				return nil, err
			}
			return logging.New(cfg)
		}, ConfigService,
	), container.Singleton, container.WithDisposer(func(v any) error {
		// Sync fails on non-file stderr; flushing is best effort.
		_ = v.(*zap.Logger).Sync()
		return nil
	}))
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router as the "router" singleton,
// with request logging and the per-request container scope already attached.
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	return app.Register(RouterService, container.Provide(
		func(ctx context.Context, r container.Resolver) (any, error) {
			logger, err := container.ResolveAs[*zap.Logger](ctx, r, LoggerService)
			if err != nil {
				return nil, err
			}
			router := routing.New()
			router.Middleware(
				gohttp.RequestLogger(logger),
				gohttp.RequestScope(app, logger),
			)
			return router, nil
		}, LoggerService,
	), container.Singleton)
}
