package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ── Container ────────────────────────────────────────────────────────────────

// Container is the composition root: a registry of service descriptors plus
// the container-wide singleton cache. Containers are created explicitly and
// passed around as values — there is no ambient process-wide default.
//
// A Container is safe for concurrent use. Two concurrent resolutions of the
// same Singleton identity never construct two instances: the second caller
// blocks on the first construction and receives the same result.
type Container struct {
	mu sync.RWMutex

	// identity → descriptor (immutable once registered)
	registry map[Identity]*ServiceDescriptor

	// identity → resolved singleton instance
	instances map[Identity]any

	// identity → in-flight singleton construction
	inflight map[Identity]*inflight

	// singleton teardown entries, in creation order
	disposals []disposal

	// live scopes spawned from this container
	scopes map[*Scope]struct{}

	disposed bool
}

// disposal records one produced instance awaiting teardown.
type disposal struct {
	identity Identity
	instance any
	disposer Disposer
}

// inflight tracks a construction in progress so concurrent resolvers of the
// same identity converge on a single instance.
type inflight struct {
	done chan struct{}
	val  any
	err  error
}

// New creates an empty container.
func New() *Container {
	return &Container{
		registry:  make(map[Identity]*ServiceDescriptor),
		instances: make(map[Identity]any),
		inflight:  make(map[Identity]*inflight),
		scopes:    make(map[*Scope]struct{}),
	}
}

// ── Registration ─────────────────────────────────────────────────────────────

// Register binds a producer to an identity under the given lifetime.
//
// Registering an identity twice fails with DuplicateRegistrationError; the
// original descriptor is never overwritten. Fixed-instance producers are
// always treated as Singleton regardless of the lifetime argument, and count
// as created at registration time for disposal ordering.
func (c *Container) Register(id Identity, producer Producer, lifetime Lifetime, opts ...RegisterOption) error {
	if !producer.fixed && producer.factory == nil {
		return ErrNilFactory
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return ErrContainerDisposed
	}
	if _, exists := c.registry[id]; exists {
		return DuplicateRegistrationError{Identity: id}
	}

	d := &ServiceDescriptor{identity: id, producer: producer, lifetime: lifetime}
	if producer.fixed {
		d.lifetime = Singleton
	}
	for _, opt := range opts {
		opt(d)
	}
	c.registry[id] = d

	if producer.fixed {
		c.instances[id] = producer.value
		if d.disposer != nil {
			c.disposals = append(c.disposals, disposal{id, producer.value, d.disposer})
		}
	}
	return nil
}

// IsRegistered reports whether an identity has a descriptor. No side effects.
func (c *Container) IsRegistered(id Identity) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.registry[id]
	return ok
}

// Descriptor returns the descriptor registered for id.
func (c *Container) Descriptor(id Identity) (*ServiceDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.registry[id]
	if !ok {
		return nil, NotRegisteredError{Identity: id}
	}
	return d, nil
}

// Metadata returns the metadata stored with id's descriptor, verbatim.
func (c *Container) Metadata(id Identity) (any, error) {
	d, err := c.Descriptor(id)
	if err != nil {
		return nil, err
	}
	return d.metadata, nil
}

// Identities returns all registered identities (for diagnostics).
func (c *Container) Identities() []Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Identity, 0, len(c.registry))
	for id := range c.registry {
		out = append(out, id)
	}
	return out
}

// ── Resolution ───────────────────────────────────────────────────────────────

// Resolve constructs (or fetches from cache) the instance registered for id.
//
// Resolving a Scoped identity directly on the container fails with
// ScopeRequiredError — use CreateScope. Factory errors propagate unchanged.
func (c *Container) Resolve(ctx context.Context, id Identity) (any, error) {
	return c.resolve(ctx, newResolutionContext(), nil, id)
}

// resolve is the shared resolution core for container, scopes, and the
// resolver handles passed into factories. sc is the scope binding: nil when
// resolving on the root container or inside a Singleton factory.
func (c *Container) resolve(ctx context.Context, rc *resolutionContext, sc *Scope, id Identity) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	disposed := c.disposed
	desc := c.registry[id]
	c.mu.RUnlock()

	if disposed {
		return nil, ErrContainerDisposed
	}
	if rc.contains(id) {
		return nil, CircularDependencyError{Chain: rc.chain(id)}
	}
	if desc == nil {
		return nil, NotRegisteredError{Identity: id}
	}
	if desc.producer.fixed {
		return desc.producer.value, nil
	}

	switch desc.lifetime {
	case Singleton:
		return c.resolveSingleton(ctx, rc, desc)
	case Scoped:
		if sc == nil {
			return nil, ScopeRequiredError{Identity: id}
		}
		return sc.resolveScoped(ctx, rc, desc)
	default:
		return c.construct(ctx, rc, sc, desc)
	}
}

// resolveSingleton returns the cached instance, waits on an in-flight
// construction, or constructs and caches.
func (c *Container) resolveSingleton(ctx context.Context, rc *resolutionContext, desc *ServiceDescriptor) (any, error) {
	id := desc.identity

	c.mu.Lock()
	if v, ok := c.instances[id]; ok {
		c.mu.Unlock()
		return v, nil
	}
	if f, ok := c.inflight[id]; ok {
		c.mu.Unlock()
		return f.wait(ctx)
	}
	f := &inflight{done: make(chan struct{})}
	c.inflight[id] = f
	c.mu.Unlock()

	// Singleton factories resolve against the container, never a scope, so
	// their dependency graph cannot capture per-scope instances.
	v, err := c.construct(ctx, rc, nil, desc)

	c.mu.Lock()
	delete(c.inflight, id)
	lostToDispose := err == nil && c.disposed
	if err == nil && !c.disposed {
		c.instances[id] = v
		if desc.disposer != nil {
			c.disposals = append(c.disposals, disposal{id, v, desc.disposer})
		}
	}
	c.mu.Unlock()

	// Dispose ran while the factory was mid-construction: the instance missed
	// the teardown pass, so it is disposed here and the resolution refused.
	if lostToDispose {
		err = ErrContainerDisposed
		if desc.disposer != nil {
			if derr := runDisposer(disposal{id, v, desc.disposer}); derr != nil {
				err = errors.Join(err, derr)
			}
		}
		v = nil
	}

	f.val, f.err = v, err
	close(f.done)
	return v, err
}

// construct runs the factory with id on the resolution stack. Declared
// dependencies are resolved first, through the same stack, so cycles surface
// before the factory runs; the factory's Resolver hands back those exact
// instances, so a declared Transient dependency is built once per
// construction, not once per pre-resolve plus once per factory fetch. The
// stack is popped even when construction fails.
func (c *Container) construct(ctx context.Context, rc *resolutionContext, sc *Scope, desc *ServiceDescriptor) (any, error) {
	rc.push(desc.identity)
	defer rc.pop()

	var resolved map[Identity]any
	if len(desc.producer.deps) > 0 {
		resolved = make(map[Identity]any, len(desc.producer.deps))
		for _, dep := range desc.producer.deps {
			v, err := c.resolve(ctx, rc, sc, dep)
			if err != nil {
				return nil, err
			}
			resolved[dep] = v
		}
	}
	return desc.producer.factory(ctx, &boundResolver{container: c, scope: sc, rc: rc, resolved: resolved})
}

// wait blocks until the construction finishes or ctx is cancelled.
func (f *inflight) wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// boundResolver is the handle passed into factories: it carries the caller's
// resolution stack and scope binding into nested resolutions, plus the
// instances pre-resolved for the factory's declared dependency list.
type boundResolver struct {
	container *Container
	scope     *Scope
	rc        *resolutionContext
	resolved  map[Identity]any
}

// Resolve implements Resolver. Declared dependencies return the instance
// pre-resolved for this construction; anything else resolves normally.
func (r *boundResolver) Resolve(ctx context.Context, id Identity) (any, error) {
	if v, ok := r.resolved[id]; ok {
		return v, nil
	}
	return r.container.resolve(ctx, r.rc, r.scope, id)
}

// ── Scopes ───────────────────────────────────────────────────────────────────

// CreateScope spawns a child resolution unit sharing this container's
// registry and singleton cache but owning a private Scoped-instance cache.
func (c *Container) CreateScope() (*Scope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil, ErrContainerDisposed
	}
	s := newScope(c)
	c.scopes[s] = struct{}{}
	return s, nil
}

// removeScope detaches a scope that disposed itself.
func (c *Container) removeScope(s *Scope) {
	c.mu.Lock()
	if c.scopes != nil {
		delete(c.scopes, s)
	}
	c.mu.Unlock()
}

// ── Disposal ─────────────────────────────────────────────────────────────────

// Dispose tears the container down: every live scope first, then singleton
// instances in reverse creation order. Idempotent — a second call is a no-op.
//
// Individual disposer failures never stop the teardown; they are collected
// and returned once as a *DisposeError after every disposer has run.
func (c *Container) Dispose() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return nil
	}
	c.disposed = true
	scopes := make([]*Scope, 0, len(c.scopes))
	for s := range c.scopes {
		scopes = append(scopes, s)
	}
	c.scopes = nil
	disposals := c.disposals
	c.disposals = nil
	c.instances = nil
	c.mu.Unlock()

	var errs []error
	for _, s := range scopes {
		if err := s.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, runDisposals(disposals)...)

	if len(errs) > 0 {
		return &DisposeError{Errors: errs}
	}
	return nil
}

// runDisposals invokes disposers in reverse creation order, converting panics
// into errors so the remaining disposers still run.
func runDisposals(ds []disposal) []error {
	var errs []error
	for i := len(ds) - 1; i >= 0; i-- {
		if err := runDisposer(ds[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func runDisposer(d disposal) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("container: disposer for %q panicked: %v", d.identity, rec)
		}
	}()
	return d.disposer(d.instance)
}

// ── Resolution context ───────────────────────────────────────────────────────

// resolutionContext is one resolution call's in-flight identity stack, used
// for cycle detection. It is created fresh per top-level Resolve and shared
// by every nested resolution under it.
type resolutionContext struct {
	stack   []Identity
	onStack map[Identity]struct{}
}

func newResolutionContext() *resolutionContext {
	return &resolutionContext{onStack: make(map[Identity]struct{})}
}

func (rc *resolutionContext) contains(id Identity) bool {
	_, ok := rc.onStack[id]
	return ok
}

func (rc *resolutionContext) push(id Identity) {
	rc.stack = append(rc.stack, id)
	rc.onStack[id] = struct{}{}
}

func (rc *resolutionContext) pop() {
	last := rc.stack[len(rc.stack)-1]
	rc.stack = rc.stack[:len(rc.stack)-1]
	delete(rc.onStack, last)
}

// chain returns the current stack with the repeated identity appended, for
// CircularDependencyError diagnostics.
func (rc *resolutionContext) chain(id Identity) []Identity {
	out := make([]Identity, 0, len(rc.stack)+1)
	out = append(out, rc.stack...)
	return append(out, id)
}

// ── Generics helper ──────────────────────────────────────────────────────────

// ResolveAs resolves id and type-asserts the result.
//
//	logger, err := container.ResolveAs[*zap.Logger](ctx, scope, LoggerService)
func ResolveAs[T any](ctx context.Context, r Resolver, id Identity) (T, error) {
	var zero T
	v, err := r.Resolve(ctx, id)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, TypeMismatchError{
			Identity: id,
			Want:     fmt.Sprintf("%T", zero),
			Got:      fmt.Sprintf("%T", v),
		}
	}
	return typed, nil
}
