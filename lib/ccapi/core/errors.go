package core

import (
	"errors"
	"fmt"
)

var (
	ErrLoginFailed      = errors.New("failed to login, check the username and password")
	ErrLoginFormMissing = errors.New("could not find the login form")
	ErrSessionExpired   = errors.New("session expired and could not be renewed")
)

// ResponseError is returned when a handler replies with a non-2xx status.
type ResponseError struct {
	Handler    string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Handler, e.StatusCode, body)
}

// HandlerError is returned when a handler replies with 200 but the body
// reports that the operation failed.
type HandlerError struct {
	Handler string
	Message string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Handler, e.Message)
}
