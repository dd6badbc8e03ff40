package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	ErrBadRequest   = errors.New("invalid request")
	ErrInternal     = errors.New("internal server error")
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidRange = errors.New("invalid time range")
	ErrParamInvalid = errors.New("param value invalid")
)

func NewAPIErrorf(code int, err error, message string, args ...any) APIError {
	apiErr := NewAPIError(code, err)
	apiErr.Detail = fmt.Sprintf(message, args...)

	return apiErr
}

func NewAPIError(code int, err error) APIError {
	apiErr := APIError{
		err:       err,
		Status:    code,
		Type:      "about:blank",
		Timestamp: time.Now(),
	}

	// Errors joined with errors.Join put the public sentinel last; only that
	// one is shown to clients.
	if e, ok := err.(interface{ Unwrap() []error }); ok {
		if wrapped := e.Unwrap(); len(wrapped) > 0 {
			apiErr.Title = wrapped[len(wrapped)-1].Error()
		}

		return apiErr
	}

	apiErr.Title = err.Error()

	return apiErr
}

// APIError implements https://www.rfc-editor.org/rfc/rfc9457.html
// application/problem+json.
type APIError struct {
	err       error
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Status    int       `json:"status"`
	Detail    string    `json:"detail"`
	Instance  string    `json:"instance"`
	Timestamp time.Time `json:"timestamp"`
}

func (e APIError) Error() string {
	if e.err == nil {
		return e.Title
	}

	return e.err.Error()
}

func (e APIError) Unwrap() error {
	return e.err
}

// SetError hands err to the error middleware. Handlers return right after.
func SetError(ctx *gin.Context, err APIError) {
	err.Instance = ctx.Request.URL.Path

	_ = ctx.Error(err)
}
