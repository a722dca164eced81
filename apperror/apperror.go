// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package apperror provides the error taxonomy of the catalog and data surfaces.
// Every error which is rendered to a client is constructed here, so codes and messages are identical
// across the catalog surface and every generated data surface.
//
// Internal errors keep their cause for logging but never expose it to the client.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind of an error.
type Kind int

// Error kinds.
const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindPolicy
)

// Codes rendered in the error envelope.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeDuplicate  = "DUPLICATE"
	CodePolicy     = "POLICY_VIOLATION"
	CodeInternal   = "INTERNAL_ERROR"
)

// messageInternal is the only message a client sees for unexpected failures.
const messageInternal = "an unexpected error occurred"

// Detail describes a single invalid field.
type Detail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error of the application.
type Error struct {
	Kind    Kind
	Message string
	Details []Detail
	cause   error
}

// Error implements the error interface.
// Internal errors include the cause.
func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the envelope code of the kind.
func (e *Error) Code() string {
	switch e.Kind {
	case KindValidation:
		return CodeValidation
	case KindNotFound:
		return CodeNotFound
	case KindDuplicate:
		return CodeDuplicate
	case KindPolicy:
		return CodePolicy
	default:
		return CodeInternal
	}
}

// Status returns the HTTP status code of the kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindPolicy:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Body returns the content of the error envelope {code, message, details?}.
func (e *Error) Body() map[string]interface{} {
	body := map[string]interface{}{"code": e.Code(), "message": e.Message}
	if e.Kind == KindInternal {
		body["message"] = messageInternal
	}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	return body
}

// Validation creates a validation error (malformed, missing or disallowed input).
func Validation(msg string, details ...Detail) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// NotFound creates an error for an unknown table, column or record.
func NotFound(resource string, key interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %v not found", resource, key)}
}

// Duplicate creates an error for a name collision.
func Duplicate(resource string, name string) *Error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf("%s %q already exists", resource, name)}
}

// Policy creates an error for an operation the storage engine does not support.
func Policy(msg string) *Error {
	return &Error{Kind: KindPolicy, Message: msg}
}

// Internal wraps an unexpected error.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: messageInternal, cause: err}
}

// From returns the *Error of the chain or wraps err as internal error.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Is reports whether the chain of err contains an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
