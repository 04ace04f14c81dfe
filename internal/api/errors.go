package api

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the backend's error body shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error is a classified backend failure. Status 0 means no response was
// received at all (network failure).
type Error struct {
	Status    int
	Code      string
	Message   string
	RequestID string
	Err       error // underlying transport error for network failures
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("network failure: %v", e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether no response was received.
func (e *Error) IsNetwork() bool {
	return e.Status == 0
}

// IsNotFound reports a 404, which callers handle page-locally.
func (e *Error) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// ErrorContext is the (id, message, code) triple recorded for the error views.
type ErrorContext struct {
	RequestID string
	Message   string
	Code      string
}

// Navigator receives the side-effecting navigations of the failure taxonomy.
// 404 and plain 4xx responses never navigate; the caller decides page-level
// handling for those.
type Navigator interface {
	Unauthorized()
	Forbidden(ErrorContext)
	ServerError(ErrorContext)
	NetworkError(ErrorContext)
}

// SessionClearer wipes local session state. Invoked on 401 before navigating.
type SessionClearer interface {
	ClearSession()
}

// NopNavigator satisfies Navigator with no side effects.
type NopNavigator struct{}

func (NopNavigator) Unauthorized()             {}
func (NopNavigator) Forbidden(ErrorContext)    {}
func (NopNavigator) ServerError(ErrorContext)  {}
func (NopNavigator) NetworkError(ErrorContext) {}
