package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized is returned when the API rejects the admin session.
// Handlers should drop the session cookie and send the user to login.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// Error is any other non-2xx upstream response.  Detail carries the API's
// "detail" message when it sent one.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

// detailFrom extracts {"detail": "..."} from an error body.  FastAPI
// validation errors carry a list there; those collapse to their messages.
func detailFrom(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

// statusError maps an upstream status to the package errors.
func statusError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return &Error{Status: status, Detail: detailFrom(body)}
}

// Message returns text suitable for showing an administrator.
func Message(err error) string {
	var apiErr *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, ErrNotFound):
		return "Entry not found"
	case errors.Is(err, ErrUnauthorized):
		return "Session expired, please sign in again"
	}
	return "The menu service is unavailable, please try again"
}
