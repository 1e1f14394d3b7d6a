package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gohttp "github.com/linkstash/linkstash/framework/http"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestResponse_Success(t *testing.T) {
	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).Success(map[string]any{"id": "1"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	out := decode(t, rr)
	assert.Equal(t, map[string]any{"id": "1"}, out["data"])
}

func TestResponse_Created(t *testing.T) {
	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).Created(map[string]any{"id": "1"})
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestResponse_NoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).NoContent()
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestResponse_ErrorHelpers(t *testing.T) {
	cases := []struct {
		name string
		fn   func(res *gohttp.Response)
		code int
		msg  string
	}{
		{"bad request", func(r *gohttp.Response) { r.BadRequest("nope") }, http.StatusBadRequest, "nope"},
		{"not found default", func(r *gohttp.Response) { r.NotFound() }, http.StatusNotFound, "Not found."},
		{"not found custom", func(r *gohttp.Response) { r.NotFound("gone") }, http.StatusNotFound, "gone"},
		{"server error", func(r *gohttp.Response) { r.ServerError() }, http.StatusInternalServerError, "Server error."},
		{"unavailable", func(r *gohttp.Response) { r.ServiceUnavailable() }, http.StatusServiceUnavailable, "Service unavailable."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.fn(gohttp.NewResponse(rr))
			assert.Equal(t, tc.code, rr.Code)
			assert.Equal(t, tc.msg, decode(t, rr)["message"])
		})
	}
}

func TestResponse_ValidationError(t *testing.T) {
	type payload struct {
		URL string `validate:"required,url"`
	}
	err := validator.New().Struct(payload{URL: "not-a-url"})
	require.Error(t, err)

	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).ValidationError(err)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var out struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Contains(t, out.Errors, "URL")
	assert.NotEmpty(t, out.Errors["URL"])
}

func TestResponse_ValidationErrorWithPlainError(t *testing.T) {
	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).ValidationError(assert.AnError)

	var out struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Contains(t, out.Errors, "_")
}
