package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appproviders "github.com/linkstash/linkstash/app/providers"
	"github.com/linkstash/linkstash/framework/app"
	"github.com/linkstash/linkstash/framework/routing"
)

// newTestApp boots a full application (framework + bookmark providers) and
// returns its router. The container is disposed via t.Cleanup.
func newTestApp(t *testing.T) (*app.Application, *routing.Router) {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("LOG_LEVEL", "error")

	application, err := app.New()
	require.NoError(t, err)
	require.NoError(t, application.Register(&appproviders.BookmarkServiceProvider{}))

	ctx := context.Background()
	require.NoError(t, application.Boot(ctx))
	router, err := application.Router(ctx)
	require.NoError(t, err)

	t.Cleanup(func() { _ = application.Shutdown(context.Background()) })
	return application, router
}

func do(t *testing.T, router *routing.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func dataField(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out.Data
}

func TestBookmarks_CreateShowUpdateDestroy(t *testing.T) {
	_, router := newTestApp(t)

	rr := do(t, router, http.MethodPost, "/api/v1/bookmarks",
		`{"url":"https://go.dev","title":"Go","tags":["Go","web"]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := dataField(t, rr)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, []any{"go", "web"}, created["tags"])

	rr = do(t, router, http.MethodGet, "/api/v1/bookmarks/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Go", dataField(t, rr)["title"])

	rr = do(t, router, http.MethodPut, "/api/v1/bookmarks/"+id, `{"title":"The Go Site"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "The Go Site", dataField(t, rr)["title"])

	rr = do(t, router, http.MethodDelete, "/api/v1/bookmarks/"+id, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, router, http.MethodGet, "/api/v1/bookmarks/"+id, "")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBookmarks_IndexFilters(t *testing.T) {
	_, router := newTestApp(t)

	for _, body := range []string{
		`{"url":"https://go.dev","title":"Go","tags":["go"]}`,
		`{"url":"https://pkg.go.dev","title":"Packages","tags":["go","docs"]}`,
		`{"url":"https://example.com","title":"Other"}`,
	} {
		rr := do(t, router, http.MethodPost, "/api/v1/bookmarks", body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	var out struct {
		Data []map[string]any `json:"data"`
	}
	rr := do(t, router, http.MethodGet, "/api/v1/bookmarks?tag=go", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out.Data, 2)

	rr = do(t, router, http.MethodGet, "/api/v1/bookmarks?q=packages", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "Packages", out.Data[0]["title"])
}

func TestBookmarks_ValidationErrorBag(t *testing.T) {
	_, router := newTestApp(t)

	rr := do(t, router, http.MethodPost, "/api/v1/bookmarks", `{"url":"not-a-url","title":"x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var out struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Contains(t, out.Errors, "url", "error bag keys are the JSON field names clients sent")
}

func TestBookmarks_MalformedBodyRejected(t *testing.T) {
	_, router := newTestApp(t)

	rr := do(t, router, http.MethodPost, "/api/v1/bookmarks", `{"url": `)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, router, http.MethodPost, "/api/v1/bookmarks", `{"nope":"unknown field"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTags_Index(t *testing.T) {
	_, router := newTestApp(t)

	rr := do(t, router, http.MethodPost, "/api/v1/bookmarks",
		`{"url":"https://go.dev","title":"Go","tags":["go","web"]}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, router, http.MethodGet, "/api/v1/tags", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var out struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Len(t, out.Data, 2)
}

func TestBookmarks_RequestsRefusedAfterShutdown(t *testing.T) {
	application, router := newTestApp(t)

	require.NoError(t, application.Shutdown(context.Background()))

	// The process keeps serving; each request is refused individually.
	rr := do(t, router, http.MethodGet, "/api/v1/bookmarks", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
