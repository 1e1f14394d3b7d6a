package container

import (
	"context"
	"errors"
	"sync"
)

// Scope is a child resolution unit, typically one per HTTP request or unit of
// work. It shares the parent container's registry and singleton cache but
// owns the cache for Scoped instances, so sibling scopes never see each
// other's instances.
type Scope struct {
	container *Container

	mu sync.Mutex

	// identity → resolved scoped instance
	instances map[Identity]any

	// identity → in-flight scoped construction
	inflight map[Identity]*inflight

	// scoped teardown entries, in creation order
	disposals []disposal

	disposed bool
}

func newScope(c *Container) *Scope {
	return &Scope{
		container: c,
		instances: make(map[Identity]any),
		inflight:  make(map[Identity]*inflight),
	}
}

// Resolve constructs (or fetches from cache) the instance registered for id,
// with this scope as the binding for Scoped lifetimes. Singleton identities
// still resolve to the container-wide instance.
func (s *Scope) Resolve(ctx context.Context, id Identity) (any, error) {
	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()
	if disposed {
		return nil, ErrScopeDisposed
	}
	return s.container.resolve(ctx, newResolutionContext(), s, id)
}

// IsRegistered delegates to the shared registry.
func (s *Scope) IsRegistered(id Identity) bool {
	return s.container.IsRegistered(id)
}

// Metadata delegates to the shared registry.
func (s *Scope) Metadata(id Identity) (any, error) {
	return s.container.Metadata(id)
}

// resolveScoped returns the instance cached in this scope, waits on an
// in-flight construction, or constructs and caches.
func (s *Scope) resolveScoped(ctx context.Context, rc *resolutionContext, desc *ServiceDescriptor) (any, error) {
	id := desc.identity

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, ErrScopeDisposed
	}
	if v, ok := s.instances[id]; ok {
		s.mu.Unlock()
		return v, nil
	}
	if f, ok := s.inflight[id]; ok {
		s.mu.Unlock()
		return f.wait(ctx)
	}
	f := &inflight{done: make(chan struct{})}
	s.inflight[id] = f
	s.mu.Unlock()

	// Scoped factories resolve against this scope, so their scoped
	// dependencies land in the same cache.
	v, err := s.container.construct(ctx, rc, s, desc)

	s.mu.Lock()
	delete(s.inflight, id)
	lostToDispose := err == nil && s.disposed
	if err == nil && !s.disposed {
		s.instances[id] = v
		if desc.disposer != nil {
			s.disposals = append(s.disposals, disposal{id, v, desc.disposer})
		}
	}
	s.mu.Unlock()

	// Dispose ran while the factory was mid-construction: the instance missed
	// the teardown pass, so it is disposed here and the resolution refused.
	if lostToDispose {
		err = ErrScopeDisposed
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

// Dispose tears down the instances this scope created, invoking disposers in
// reverse creation order, then marks the scope inert: later resolutions fail
// with ErrScopeDisposed rather than returning stale instances. Idempotent.
func (s *Scope) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	disposals := s.disposals
	s.disposals = nil
	s.instances = nil
	s.mu.Unlock()

	s.container.removeScope(s)

	if errs := runDisposals(disposals); len(errs) > 0 {
		return &DisposeError{Errors: errs}
	}
	return nil
}
