// Package app hosts the application kernel: the container-backed bootstrap
// and HTTP serving loop.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/linkstash/linkstash/framework/config"
	"github.com/linkstash/linkstash/framework/container"
	"github.com/linkstash/linkstash/framework/providers"
	"github.com/linkstash/linkstash/framework/routing"
)

// Application is the top-level composition root. It embeds the IoC container
// so callers can register and resolve directly, and owns the provider
// registry driving the two-phase bootstrap.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework core providers.
// Application providers are added by the caller before Run.
func New(envFiles ...string) (*Application, error) {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LoggingServiceProvider{},
		&providers.RoutingServiceProvider{},
	}
	for _, p := range core {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot phase on all providers. Wiring failures here are fatal
// to startup; callers should not serve traffic after a Boot error.
func (a *Application) Boot(ctx context.Context) error {
	return a.Providers.Boot(ctx)
}

// Config resolves the application configuration.
func (a *Application) Config(ctx context.Context) (*config.Config, error) {
	return container.ResolveAs[*config.Config](ctx, a.Container, providers.ConfigService)
}

// Logger resolves the application logger.
func (a *Application) Logger(ctx context.Context) (*zap.Logger, error) {
	return container.ResolveAs[*zap.Logger](ctx, a.Container, providers.LoggerService)
}

// Router resolves the HTTP router.
func (a *Application) Router(ctx context.Context) (*routing.Router, error) {
	return container.ResolveAs[*routing.Router](ctx, a.Container, providers.RouterService)
}

// Run boots the application and serves HTTP until ctx is cancelled, then
// shuts the server down gracefully and disposes the container.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(ctx); err != nil {
			return err
		}
	}

	cfg, err := a.Config(ctx)
	if err != nil {
		return err
	}
	logger, err := a.Logger(ctx)
	if err != nil {
		return err
	}
	router, err := a.Router(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	logger.Info("server started",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.App.Env),
	)

	select {
	case err := <-serveErr:
		_ = a.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")

	return a.Shutdown(shutdownCtx)
}

// Shutdown disposes the container: live request scopes first, then the
// singletons in reverse creation order. Safe to call more than once.
func (a *Application) Shutdown(_ context.Context) error {
	return a.Container.Dispose()
}
