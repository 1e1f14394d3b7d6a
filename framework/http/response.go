package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with JSON envelope helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// JSON sends a JSON response.
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Created sends 201 JSON: {"data": v}
func (res *Response) Created(v any) {
	res.JSON(http.StatusCreated, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// Error sends a JSON error response.
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// BadRequest sends 400.
func (res *Response) BadRequest(message string) {
	res.Error(http.StatusBadRequest, message)
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server error."))
}

// ServiceUnavailable sends 503. Used when per-request wiring fails: the
// request is refused, the process keeps serving.
func (res *Response) ServiceUnavailable(message ...string) {
	res.Error(http.StatusServiceUnavailable, first(message, "Service unavailable."))
}

// ValidationError sends 422 with a field → messages error bag:
//
//	{"errors": {"url": ["url must be a valid url"]}}
func (res *Response) ValidationError(err error) {
	res.JSON(http.StatusUnprocessableEntity, envelope{"errors": validationBag(err)})
}

// validationBag flattens validator.ValidationErrors into the error-bag shape.
// Non-validator errors land under a generic key so callers can pass any
// validation failure through.
func validationBag(err error) map[string][]string {
	bag := make(map[string][]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		bag["_"] = []string{err.Error()}
		return bag
	}
	for _, fe := range verrs {
		field := fe.Field()
		msg := field + " failed on rule " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		bag[field] = append(bag[field], msg)
	}
	return bag
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
