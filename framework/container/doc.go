// Package container provides the IoC container and service-provider system
// the application is composed on.
//
// # Overview
//
// The container maps identities (small string newtypes, usually package-level
// constants) to service descriptors. A descriptor pairs a producer — a
// factory function with an explicitly declared dependency list, or a fixed
// pre-built value — with a lifetime, optional metadata, and an optional
// disposer. There is no reflection and no auto-wiring: every dependency is
// named as data and resolved explicitly.
//
// # Lifetimes
//
//	Singleton — one instance per container, created lazily, shared by all scopes.
//	Scoped    — one instance per Scope; sibling scopes are isolated.
//	Transient — a fresh instance per resolution, never cached or tracked.
//
// A fixed instance registered with Instance() is always a singleton, whatever
// lifetime the registration names.
//
// # Registration and resolution
//
//	c := container.New()
//
//	err := c.Register(LoggerService, container.Provide(
//	    func(ctx context.Context, r container.Resolver) (any, error) {
//	        return zap.NewProduction()
//	    },
//	), container.Singleton, container.WithDisposer(func(v any) error {
//	    _ = v.(*zap.Logger).Sync()
//	    return nil
//	}))
//
//	logger, err := container.ResolveAs[*zap.Logger](ctx, c, LoggerService)
//
// Registering an identity twice fails with DuplicateRegistrationError;
// descriptors are never silently replaced. Resolving an unknown identity
// fails with NotRegisteredError, never nil. Factory failures propagate to the
// caller unchanged, so container-level errors stay distinguishable from
// service-level ones.
//
// # Cycle detection
//
// Every top-level Resolve carries a fresh resolution stack shared by all
// nested resolutions beneath it. Re-entering an identity already on the
// stack fails with CircularDependencyError naming the full chain, whatever
// the cycle's depth.
//
// # Scopes
//
//	scope, err := c.CreateScope()
//	defer scope.Dispose()
//	svc, err := container.ResolveAs[*bookmarks.Service](ctx, scope, BookmarkService)
//
// Scoped identities MUST be resolved through a Scope: resolving one directly
// on the container fails with ScopeRequiredError. The alternative — treating
// the call as a one-off implicit scope — would silently leak disposable
// instances and let a Singleton factory capture a per-request dependency, so
// it is rejected here.
//
// # Disposal
//
// Dispose on a Scope runs its scoped disposers in reverse creation order and
// marks the scope inert. Dispose on the Container first disposes every live
// scope, then the singletons, again in reverse creation order. Disposal is
// idempotent, never panics, and always runs every disposer; individual
// failures are collected into one *DisposeError.
//
// # Service providers
//
// Related registrations are grouped into ServiceProviders with a two-phase
// lifecycle: Register (bind descriptors, no resolving) then Boot (resolve
// freely). The ProviderRegistry drives both phases; a registration or boot
// failure aborts startup.
package container
