package controllers

import (
	"net/http"

	"github.com/linkstash/linkstash/framework/container"
	gohttp "github.com/linkstash/linkstash/framework/http"
	"github.com/linkstash/linkstash/framework/routing"
)

// BookmarkResource adapts the Transient BookmarkController to the router's
// resource interface: each request resolves a fresh controller from the
// request scope before delegating.
type BookmarkResource struct{}

var _ routing.ResourceController = BookmarkResource{}

func (BookmarkResource) Index(w http.ResponseWriter, r *http.Request) {
	dispatch(w, r, BookmarkControllerService, (*BookmarkController).Index)
}

func (BookmarkResource) Store(w http.ResponseWriter, r *http.Request) {
	dispatch(w, r, BookmarkControllerService, (*BookmarkController).Store)
}

func (BookmarkResource) Show(w http.ResponseWriter, r *http.Request) {
	dispatch(w, r, BookmarkControllerService, (*BookmarkController).Show)
}

func (BookmarkResource) Update(w http.ResponseWriter, r *http.Request) {
	dispatch(w, r, BookmarkControllerService, (*BookmarkController).Update)
}

func (BookmarkResource) Destroy(w http.ResponseWriter, r *http.Request) {
	dispatch(w, r, BookmarkControllerService, (*BookmarkController).Destroy)
}

// TagIndex returns the handler for GET /tags.
func TagIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dispatch(w, r, TagControllerService, (*TagController).Index)
	}
}

// dispatch resolves a controller of type T from the request scope and invokes
// method on it. A wiring failure refuses the single request with 503 — the
// process keeps serving (startup wiring failures, by contrast, abort boot).
func dispatch[T any](w http.ResponseWriter, r *http.Request, id container.Identity, method func(T, http.ResponseWriter, *http.Request)) {
	res := gohttp.NewResponse(w)

	scope := gohttp.ScopeFrom(r.Context())
	if scope == nil {
		res.ServerError("request scope missing")
		return
	}
	ctrl, err := container.ResolveAs[T](r.Context(), scope, id)
	if err != nil {
		res.ServiceUnavailable()
		return
	}
	method(ctrl, w, r)
}
