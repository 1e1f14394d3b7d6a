// Package controllers holds the HTTP controllers. Controllers are registered
// Transient and resolved from the request scope, so every request gets a
// fresh controller over that request's scoped service.
package controllers

import (
	"errors"
	"net/http"

	"github.com/linkstash/linkstash/app/bookmarks"
	"github.com/linkstash/linkstash/framework/container"
	gohttp "github.com/linkstash/linkstash/framework/http"
	"github.com/linkstash/linkstash/framework/routing"
)

// Identities of the controller services.
const (
	BookmarkControllerService container.Identity = "controllers.bookmarks"
	TagControllerService      container.Identity = "controllers.tags"
)

// BookmarkController serves the bookmark REST resource.
type BookmarkController struct {
	service *bookmarks.Service
}

// NewBookmarkController creates a controller over the request's service.
func NewBookmarkController(service *bookmarks.Service) *BookmarkController {
	return &BookmarkController{service: service}
}

// Index handles GET /bookmarks?tag=&q=
func (c *BookmarkController) Index(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)

	list, err := c.service.List(req.Query("tag"), req.Query("q"))
	if err != nil {
		res.ServerError()
		return
	}
	res.Success(list)
}

// Store handles POST /bookmarks
func (c *BookmarkController) Store(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)

	var in bookmarks.CreateInput
	if err := req.Bind(&in); err != nil {
		res.BadRequest(err.Error())
		return
	}

	b, err := c.service.Create(in)
	if err != nil {
		res.ValidationError(err)
		return
	}
	res.Created(b)
}

// Show handles GET /bookmarks/{id}
func (c *BookmarkController) Show(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)

	b, err := c.service.Get(routing.Param(r, "id"))
	if err != nil {
		respondLookupError(res, err)
		return
	}
	res.Success(b)
}

// Update handles PUT/PATCH /bookmarks/{id}
func (c *BookmarkController) Update(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)

	var in bookmarks.UpdateInput
	if err := req.Bind(&in); err != nil {
		res.BadRequest(err.Error())
		return
	}

	b, err := c.service.Update(routing.Param(r, "id"), in)
	if err != nil {
		var nf bookmarks.NotFoundError
		if errors.As(err, &nf) {
			res.NotFound(nf.Error())
			return
		}
		res.ValidationError(err)
		return
	}
	res.Success(b)
}

// Destroy handles DELETE /bookmarks/{id}
func (c *BookmarkController) Destroy(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)

	if err := c.service.Delete(routing.Param(r, "id")); err != nil {
		respondLookupError(res, err)
		return
	}
	res.NoContent()
}

func respondLookupError(res *gohttp.Response, err error) {
	var nf bookmarks.NotFoundError
	if errors.As(err, &nf) {
		res.NotFound(nf.Error())
		return
	}
	res.ServerError()
}

// ── TagController ────────────────────────────────────────────────────────────

// TagController serves the tag listing.
type TagController struct {
	service *bookmarks.Service
}

// NewTagController creates a controller over the request's service.
func NewTagController(service *bookmarks.Service) *TagController {
	return &TagController{service: service}
}

// Index handles GET /tags
func (c *TagController) Index(w http.ResponseWriter, r *http.Request) {
	res := gohttp.NewResponse(w)

	tags, err := c.service.Tags()
	if err != nil {
		res.ServerError()
		return
	}
	res.Success(tags)
}
