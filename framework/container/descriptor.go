package container

import "context"

// ── Identity & Lifetime ──────────────────────────────────────────────────────

// Identity uniquely names a registered service within one container.
//
// Identities are typically declared as package-level constants so typos are
// caught at compile time:
//
//	const (
//	    LoggerService container.Identity = "logger"
//	    StoreService  container.Identity = "bookmarks.store"
//	)
type Identity string

// String returns the identity as a plain string.
func (id Identity) String() string { return string(id) }

// Lifetime controls how instances produced for an identity are cached.
type Lifetime int

const (
	// Singleton — one instance per container, created lazily on first
	// resolution and shared with every scope.
	Singleton Lifetime = iota

	// Scoped — one instance per Scope; sibling scopes get distinct instances.
	Scoped

	// Transient — a fresh instance on every resolution, never cached.
	Transient
)

// String returns the lifetime name.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// ── Producer ─────────────────────────────────────────────────────────────────

// Resolver resolves an identity to a constructed instance. Both *Container
// and *Scope implement it, as does the handle passed into factories.
type Resolver interface {
	Resolve(ctx context.Context, id Identity) (any, error)
}

// Factory builds a service instance. The resolver it receives shares the
// caller's in-flight resolution stack, so dependency cycles of any depth are
// detected even across nested factory calls.
type Factory func(ctx context.Context, r Resolver) (any, error)

// Disposer releases an instance when its owning cache is torn down.
type Disposer func(instance any) error

// Producer is the registered recipe for an identity: either a factory with an
// explicit dependency list, or a fixed pre-built value. The variant is decided
// at registration time, never inferred later.
type Producer struct {
	factory Factory
	deps    []Identity
	value   any
	fixed   bool
}

// Provide returns a factory producer. deps declares the identities the
// factory needs; they are resolved (through the same resolution stack) before
// the factory runs, and the factory's Resolver hands back those same
// instances.
//
//	container.Provide(func(ctx context.Context, r container.Resolver) (any, error) {
//	    logger, err := container.ResolveAs[*zap.Logger](ctx, r, LoggerService)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return bookmarks.NewStore(logger), nil
//	}, LoggerService)
func Provide(factory Factory, deps ...Identity) Producer {
	return Producer{factory: factory, deps: deps}
}

// Instance returns a fixed-value producer. The value behaves as an eagerly
// created singleton: it is never re-produced, regardless of the lifetime the
// caller registers it under.
func Instance(value any) Producer {
	return Producer{value: value, fixed: true}
}

// IsFixed reports whether the producer wraps a pre-built value.
func (p Producer) IsFixed() bool { return p.fixed }

// Dependencies returns a copy of the factory's declared dependency list.
func (p Producer) Dependencies() []Identity {
	out := make([]Identity, len(p.deps))
	copy(out, p.deps)
	return out
}

// ── ServiceDescriptor ────────────────────────────────────────────────────────

// ServiceDescriptor is the immutable registration record for one identity.
type ServiceDescriptor struct {
	identity Identity
	producer Producer
	lifetime Lifetime
	metadata any
	disposer Disposer
}

// Identity returns the identity the descriptor was registered under.
func (d *ServiceDescriptor) Identity() Identity { return d.identity }

// Lifetime returns the effective lifetime. Fixed-instance registrations
// always report Singleton.
func (d *ServiceDescriptor) Lifetime() Lifetime { return d.lifetime }

// Producer returns the registered producer.
func (d *ServiceDescriptor) Producer() Producer { return d.producer }

// Metadata returns the caller-supplied metadata verbatim. The container never
// interprets it.
func (d *ServiceDescriptor) Metadata() any { return d.metadata }

// ── Registration options ─────────────────────────────────────────────────────

// RegisterOption customises a registration.
type RegisterOption func(*ServiceDescriptor)

// WithMetadata attaches opaque metadata to the descriptor, returned verbatim
// by Metadata lookups.
func WithMetadata(md any) RegisterOption {
	return func(d *ServiceDescriptor) { d.metadata = md }
}

// WithDisposer attaches a cleanup function invoked with the produced instance
// when the owning cache (container for Singleton, scope for Scoped) is
// disposed. Transient instances are never tracked; their cleanup belongs to
// the caller that received them.
func WithDisposer(fn Disposer) RegisterOption {
	return func(d *ServiceDescriptor) { d.disposer = fn }
}
