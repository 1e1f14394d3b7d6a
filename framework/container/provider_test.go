package container_test

import (
	"context"
	"errors"
	"testing"

	"github.com/linkstash/linkstash/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type recordingProvider struct {
	container.BaseProvider
	registerCalled bool
	bootCalled     bool
}

func (p *recordingProvider) Register(app *container.Container) error {
	p.registerCalled = true
	return app.Register("recording-svc", container.Instance("recorded"), container.Singleton)
}

func (p *recordingProvider) Boot(_ context.Context, _ *container.Container) error {
	p.bootCalled = true
	return nil
}

type failingProvider struct {
	container.BaseProvider
	err error
}

func (p *failingProvider) Register(_ *container.Container) error { return p.err }

type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(app *container.Container) error {
	if err := app.Register("alpha", container.Instance("α"), container.Singleton); err != nil {
		return err
	}
	return app.Register("beta", container.Instance("β"), container.Singleton)
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_RegisterCalledImmediately(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &recordingProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !p.registerCalled {
		t.Error("Register() should be called immediately")
	}
	if !c.IsRegistered("recording-svc") {
		t.Error("provider's registrations should land in the container")
	}
}

func TestRegistry_BootRunsAfterAllRegistrations(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &recordingProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.bootCalled {
		t.Error("Boot() should NOT run before registry.Boot()")
	}

	if err := reg.Boot(context.Background()); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if !p.bootCalled {
		t.Error("Boot() should run during registry.Boot()")
	}
	if !reg.Booted() {
		t.Error("Booted() should report true after Boot()")
	}
}

func TestRegistry_BootIdempotent(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	boots := 0
	p := &countingBootProvider{boots: &boots}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_ = reg.Boot(context.Background())
	_ = reg.Boot(context.Background())
	if boots != 1 {
		t.Errorf("Boot() ran %d times, want 1", boots)
	}
}

type countingBootProvider struct {
	container.BaseProvider
	boots *int
}

func (p *countingBootProvider) Register(_ *container.Container) error { return nil }
func (p *countingBootProvider) Boot(_ context.Context, _ *container.Container) error {
	*p.boots++
	return nil
}

func TestRegistry_SameProviderRegisteredOnce(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &multiProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	// A second registration of the same provider is a no-op, so its
	// container registrations are not attempted (and rejected) again.
	if err := reg.Register(p); err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if got := len(reg.Providers()); got != 1 {
		t.Errorf("Providers() len = %d, want 1", got)
	}
}

func TestRegistry_RegisterFailurePropagates(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	boom := errors.New("bad wiring")
	err := reg.Register(&failingProvider{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Register error = %v, want %v", err, boom)
	}
	if got := len(reg.Providers()); got != 0 {
		t.Errorf("failed provider should not be retained, got %d", got)
	}
}

func TestRegistry_LateProviderBootedImmediately(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	if err := reg.Boot(context.Background()); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	p := &recordingProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !p.bootCalled {
		t.Error("providers registered after Boot() should boot immediately")
	}
}
