// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apperr defines the closed set of errors surfaced to the user:
// network failures, server (non-2xx) failures, and validation failures
// caught before a request is dispatched.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrStale is returned when a response arrived after a newer request for the
// same resource was issued. It is never shown to the user.
var ErrStale = errors.New("stale response discarded")

// ErrSubmitting is returned when a submission is attempted while another is
// still in flight. It classifies as KindValidation: nothing was dispatched.
var ErrSubmitting = errors.New("submission already in progress")

// Kind classifies an error.
type Kind string

const (
	KindNone       Kind = ""
	KindNetwork    Kind = "network"
	KindServer     Kind = "server"
	KindValidation Kind = "validation"
	KindStale      Kind = "stale"
	KindUnknown    Kind = "unknown"
)

// NetworkError wraps a transport failure: DNS, connection refused, timeout,
// or a cancelled context.
type NetworkError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a non-2xx response.
type ServerError struct {
	Method     string
	Endpoint   string
	StatusCode int
	// Message is the backend's error message, or a body excerpt.
	Message string
}

func (e *ServerError) Error() string {
	msg := fmt.Sprintf("server error: %s %s returned HTTP %d", e.Method, e.Endpoint, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// NotFound reports whether the backend answered 404.
func (e *ServerError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// Unauthorized reports whether the backend rejected the credentials.
func (e *ServerError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// ValidationError lists required fields that are empty.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case len(e.Fields) > 0 && e.Reason != "":
		return fmt.Sprintf("validation error: %s (%s)", e.Reason, strings.Join(e.Fields, ", "))
	case len(e.Fields) > 0:
		return fmt.Sprintf("validation error: missing required field(s): %s", strings.Join(e.Fields, ", "))
	default:
		return "validation error: " + e.Reason
	}
}

// Missing builds a ValidationError for empty required fields.
func Missing(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Invalid builds a ValidationError with a free-form reason.
func Invalid(reason string, fields ...string) *ValidationError {
	return &ValidationError{Reason: reason, Fields: fields}
}

// KindOf classifies err into the taxonomy.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrStale) {
		return KindStale
	}
	var ve *ValidationError
	if errors.As(err, &ve) || errors.Is(err, ErrSubmitting) {
		return KindValidation
	}
	var se *ServerError
	if errors.As(err, &se) {
		return KindServer
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return KindNetwork
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindUnknown
}

// UserMessage renders err as a short inline message.
func UserMessage(err error) string {
	switch KindOf(err) {
	case KindNone, KindStale:
		return ""
	case KindValidation:
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return "A submission is already in progress. Wait for it to finish."
		}
		if len(ve.Fields) > 0 && ve.Reason == "" {
			return "Please fill in: " + strings.Join(ve.Fields, ", ")
		}
		return ve.Error()
	case KindServer:
		var se *ServerError
		errors.As(err, &se)
		switch {
		case se.Unauthorized():
			return "Your session is not authorized. Run `regdesk login` and try again."
		case se.NotFound():
			return "The requested resource was not found."
		case se.Message != "":
			return fmt.Sprintf("The server could not complete the request (HTTP %d): %s", se.StatusCode, se.Message)
		default:
			return fmt.Sprintf("The server could not complete the request (HTTP %d).", se.StatusCode)
		}
	case KindNetwork:
		return "Could not reach the server. Check your connection and the configured base URL."
	default:
		return err.Error()
	}
}
