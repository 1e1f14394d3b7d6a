package container

import "context"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related registrations.
//
// Register binds descriptors into the container and must not resolve other
// identities — the container is still being assembled. Boot runs after every
// provider has registered, so resolving anything is safe there.
//
//	type BookmarkServiceProvider struct{ container.BaseProvider }
//
//	func (p *BookmarkServiceProvider) Register(app *container.Container) error {
//	    return app.Register(StoreService, container.Provide(newStore, LoggerService),
//	        container.Singleton, container.WithDisposer(closeStore))
//	}
//
//	func (p *BookmarkServiceProvider) Boot(ctx context.Context, app *container.Container) error {
//	    router, err := container.ResolveAs[*routing.Router](ctx, app, RouterService)
//	    ...
//	}
type ServiceProvider interface {
	// Register binds services into the container. Registration errors abort
	// application startup.
	Register(app *Container) error

	// Boot is called after all providers are registered. Safe to resolve
	// any identity here.
	Boot(ctx context.Context, app *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct providing a no-op Boot. Embed it in
// providers that only register.
type BaseProvider struct{}

// Boot implements ServiceProvider with a no-op.
func (BaseProvider) Boot(_ context.Context, _ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry drives the two-phase provider lifecycle: register
// everything, then boot everything. A provider registered after Boot is
// booted immediately.
type ProviderRegistry struct {
	app        *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and runs its Register phase. Registering the same
// provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if err := provider.Register(r.app); err != nil {
		return err
	}
	r.providers = append(r.providers, provider)

	if r.booted {
		return provider.Boot(context.Background(), r.app)
	}
	return nil
}

// Boot runs the Boot phase on every registered provider, in registration
// order. The first failure aborts — wiring failures at startup are fatal.
func (r *ProviderRegistry) Boot(ctx context.Context) error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.providers {
		if err := provider.Boot(ctx, r.app); err != nil {
			return err
		}
	}
	return nil
}

// Booted returns true once Boot has run.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.providers }
