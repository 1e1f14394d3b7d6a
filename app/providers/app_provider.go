// Package providers wires the bookmark application into the container.
package providers

import (
	"context"

	"go.uber.org/zap"

	"github.com/linkstash/linkstash/app/bookmarks"
	"github.com/linkstash/linkstash/app/controllers"
	"github.com/linkstash/linkstash/framework/config"
	"github.com/linkstash/linkstash/framework/container"
	fwproviders "github.com/linkstash/linkstash/framework/providers"
	"github.com/linkstash/linkstash/framework/routing"
)

// Identities of the bookmark domain services.
const (
	StoreService    container.Identity = "bookmarks.store"
	BookmarkService container.Identity = "bookmarks.service"
)

// BookmarkServiceProvider registers the bookmark domain:
//
//	bookmarks.store       Singleton  — one store per process, closed at teardown
//	bookmarks.service     Scoped     — one service per request
//	controllers.bookmarks Transient  — fresh controller per resolution
//	controllers.tags      Transient
//
// and mounts the HTTP routes in Boot.
type BookmarkServiceProvider struct {
	container.BaseProvider
}

func (p *BookmarkServiceProvider) Register(app *container.Container) error {
	err := app.Register(StoreService, container.Provide(
		func(ctx context.Context, r container.Resolver) (any, error) {
			logger, err := container.ResolveAs[*zap.Logger](ctx, r, fwproviders.LoggerService)
			if err != nil {
				return nil, err
			}
			return bookmarks.NewStore(logger.Named("bookmarks")), nil
		}, fwproviders.LoggerService,
	), container.Singleton,
		container.WithMetadata("app/bookmarks"),
		container.WithDisposer(func(v any) error {
			return v.(*bookmarks.Store).Close()
		}))
	if err != nil {
		return err
	}

	err = app.Register(BookmarkService, container.Provide(
		func(ctx context.Context, r container.Resolver) (any, error) {
			store, err := container.ResolveAs[*bookmarks.Store](ctx, r, StoreService)
			if err != nil {
				return nil, err
			}
			logger, err := container.ResolveAs[*zap.Logger](ctx, r, fwproviders.LoggerService)
			if err != nil {
				return nil, err
			}
			cfg, err := container.ResolveAs[*config.Config](ctx, r, fwproviders.ConfigService)
			if err != nil {
				return nil, err
			}
			return bookmarks.NewService(store, logger.Named("bookmarks"), cfg.Bookmarks.PageSize), nil
		}, StoreService, fwproviders.LoggerService, fwproviders.ConfigService,
	), container.Scoped)
	if err != nil {
		return err
	}

	err = app.Register(controllers.BookmarkControllerService, container.Provide(
		func(ctx context.Context, r container.Resolver) (any, error) {
			service, err := container.ResolveAs[*bookmarks.Service](ctx, r, BookmarkService)
			if err != nil {
				return nil, err
			}
			return controllers.NewBookmarkController(service), nil
		}, BookmarkService,
	), container.Transient)
	if err != nil {
		return err
	}

	return app.Register(controllers.TagControllerService, container.Provide(
		func(ctx context.Context, r container.Resolver) (any, error) {
			service, err := container.ResolveAs[*bookmarks.Service](ctx, r, BookmarkService)
			if err != nil {
				return nil, err
			}
			return controllers.NewTagController(service), nil
		}, BookmarkService,
	), container.Transient)
}

// Boot mounts the API routes. All providers have registered by now, so the
// router singleton is safe to resolve.
func (p *BookmarkServiceProvider) Boot(ctx context.Context, app *container.Container) error {
	router, err := container.ResolveAs[*routing.Router](ctx, app, fwproviders.RouterService)
	if err != nil {
		return err
	}

	router.Prefix("/api/v1", func(api *routing.Router) {
		api.Resource("/bookmarks", controllers.BookmarkResource{})
		api.Get("/tags", controllers.TagIndex())
	})
	return nil
}
