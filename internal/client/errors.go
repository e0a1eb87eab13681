package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTimeout is returned when no response arrives within the client timeout
	ErrTimeout = errors.New("request timeout")

	// ErrUnauthenticated matches (via errors.Is) any APIError with status 401
	ErrUnauthenticated = errors.New("unauthenticated")
)

// APIError is a failure reported by a backend (any status outside 200-299).
//
// Structured is true when the backend sent a JSON envelope {type, title, status, detail}.
// Otherwise Detail holds the raw response text, or "HTTP error! status: N" when the body was empty.
type APIError struct {
	Type       string `json:"type,omitempty"`
	Title      string `json:"title,omitempty"`
	Status     int    `json:"status"`
	Detail     string `json:"detail,omitempty"`
	Structured bool   `json:"-"`
}

func (e *APIError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Title
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("backend status %d: %s", e.Status, msg)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return nil
}

// IsValidation reports whether this is a business validation failure meant to be shown to the user as is
func (e *APIError) IsValidation() bool {
	return e.Status == http.StatusUnprocessableEntity && e.Detail != ""
}

// user facing messages
const (
	MsgUnknownError   = "Error desconocido."
	MsgTimeout        = "La petición excedió el tiempo de espera."
	MsgSessionExpired = "Sesión expirada, inicie sesión nuevamente."
)

// UserMessage returns the message the console shows for err.
// Validation failures (422 with a detail) are shown verbatim; everything else gets a generic message.
func UserMessage(err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.IsValidation():
		return apiErr.Detail
	case errors.Is(err, ErrTimeout):
		return MsgTimeout
	case errors.Is(err, ErrUnauthenticated):
		return MsgSessionExpired
	default:
		return MsgUnknownError
	}
}
