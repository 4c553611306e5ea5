// Copyright (c) 2025 Queryfly
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure raised by a connection operation carries a machine-readable Kind,
// a human-friendly message and, for remote calls, the URL that was requested.
//
// Kinds compare with errors.Is, so callers can branch on the category without
// type-asserting:
//
//	if errors.Is(err, qerrors.New(qerrors.RequestFailed, "")) { ... }
//
// or, more conveniently, with IsKind.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// RequestFailed indicates the remote API answered with a non-OK application status.
	RequestFailed Kind = "request_failed"
	// TransportFailed indicates the HTTP call itself could not be completed.
	TransportFailed Kind = "transport_failed"
	// ConfigInvalid indicates missing or malformed connection configuration.
	ConfigInvalid Kind = "config_invalid"
	// UnsupportedOperation indicates a forwarded operation with no handle able to serve it.
	UnsupportedOperation Kind = "unsupported_operation"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	// URL is the requested URL for request and transport failures.
	URL string
	Err error
}

func (e *E) Error() string {
	msg := e.Message
	if e.URL != "" {
		msg = fmt.Sprintf("%s: %s", e.URL, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E of the same Kind.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Request builds a RequestFailed error for url carrying the server-supplied message.
func Request(url, serverMsg string) *E {
	return &E{Kind: RequestFailed, URL: url, Message: serverMsg}
}

// Transport builds a TransportFailed error for url wrapping the network cause.
func Transport(url string, err error) *E {
	return &E{Kind: TransportFailed, URL: url, Message: "request could not be completed", Err: err}
}

// IsKind reports whether any error in err's chain is an *E of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *E
	if !stderrors.As(err, &e) {
		return false
	}
	if e.Kind == kind {
		return true
	}
	return IsKind(e.Err, kind)
}
