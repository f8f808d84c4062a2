package api

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/microcosm-cc/bluemonday"
)

// ServerError is a non-2xx reply from the registration endpoint.
type ServerError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("registration rejected (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("registration rejected (%d)", e.StatusCode)
}

// FailureMessage is the text shown to the user when Register fails: the
// server's own message when it sent one, else a generic description.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	var serr *ServerError
	if errors.As(err, &serr) {
		if serr.Message != "" {
			return serr.Message
		}
		if text := http.StatusText(serr.StatusCode); text != "" {
			return "registration failed: " + strings.ToLower(text)
		}
		return fmt.Sprintf("registration failed: status %d", serr.StatusCode)
	}
	if errors.Is(err, context.Canceled) {
		return "registration failed: request cancelled"
	}
	return "registration failed: " + rootCause(err).Error()
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

var stripPolicy = bluemonday.StrictPolicy()

// SanitizeMessage makes a server supplied message safe to print in a
// terminal. It drops escape sequences and markup and collapses whitespace.
func SanitizeMessage(s string) string {
	s = ansi.Strip(s)
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
