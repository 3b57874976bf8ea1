package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"neonpm/internal/core"
	"neonpm/pkg/domain"
)

// Response is the envelope of every API reply.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error is the body of a failed reply.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

// Error codes.
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeNotImplemented   = "NOT_IMPLEMENTED"
)

// ErrInternalServer hides unexpected failures from clients.
var ErrInternalServer = &Error{
	Code:    ErrCodeInternalError,
	Message: "Internal server error",
	Status:  http.StatusInternalServerError,
}

// JSON writes data in the envelope with the given status.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data})
}

// JSONError writes err in the envelope.
func JSONError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	_ = json.NewEncoder(w).Encode(Response{Error: err})
}

// OK writes a 200 reply.
func OK(w http.ResponseWriter, data any) { JSON(w, http.StatusOK, data) }

// Created writes a 201 reply.
func Created(w http.ResponseWriter, data any) { JSON(w, http.StatusCreated, data) }

// NoContent writes a 204 reply.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// errorFor maps a service error onto an API error.
func errorFor(err error) *Error {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, domain.ErrNotFound):
		return &Error{Code: ErrCodeNotFound, Message: err.Error(), Status: http.StatusNotFound}
	case errors.Is(err, domain.ErrInvalidInput):
		return &Error{Code: ErrCodeValidationFailed, Message: err.Error(), Status: http.StatusBadRequest}
	case errors.Is(err, core.ErrSessionUnsupported):
		return &Error{Code: ErrCodeNotImplemented, Message: err.Error(), Status: http.StatusNotImplemented}
	default:
		return ErrInternalServer
	}
}

func badRequest(msg string) *Error {
	return &Error{Code: ErrCodeBadRequest, Message: msg, Status: http.StatusBadRequest}
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return badRequest("invalid JSON body: " + err.Error())
	}
	return nil
}
