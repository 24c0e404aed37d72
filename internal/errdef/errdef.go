// Package errdef defines the error kinds shared by the services and mapped to
// HTTP statuses by the handlers.
package errdef

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type kind int

const (
	forbidden kind = iota + 1
	badRequest
	duplicated
	unauthorized
	notFound
	transport
)

// kindError tags err with a kind. The cause formatted with %w stays in the chain.
type kindError struct {
	kind kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }

func (e *kindError) Unwrap() error { return e.err }

func newKind(k kind, format string, a ...any) error {
	return &kindError{kind: k, err: fmt.Errorf(format, a...)}
}

// is reports whether any kindError in the chain of err has kind k.
func is(err error, k kind) bool {
	var e *kindError
	for errors.As(err, &e) {
		if e.kind == k {
			return true
		}
		err = e.err
	}
	return false
}

// NewForbidden reports an authenticated caller acting beyond their role.
func NewForbidden(format string, a ...any) error { return newKind(forbidden, format, a...) }

func IsForbidden(err error) bool { return is(err, forbidden) }

// NewBadRequest reports malformed input outside of a form, such as a query filter.
func NewBadRequest(format string, a ...any) error { return newKind(badRequest, format, a...) }

func IsBadRequest(err error) bool { return is(err, badRequest) }

// NewDuplicated reports a clash with a unique record.
func NewDuplicated(format string, a ...any) error { return newKind(duplicated, format, a...) }

func IsDuplicated(err error) bool { return is(err, duplicated) }

// NewUnauthorized reports a missing, invalid or ended session.
func NewUnauthorized(format string, a ...any) error { return newKind(unauthorized, format, a...) }

func IsUnauthorized(err error) bool { return is(err, unauthorized) }

// NewNotFound reports a resource that does not exist.
func NewNotFound(format string, a ...any) error { return newKind(notFound, format, a...) }

func IsNotFound(err error) bool { return is(err, notFound) }

// NewTransport reports an outbound delivery, such as email, that failed.
func NewTransport(format string, a ...any) error { return newKind(transport, format, a...) }

func IsTransport(err error) bool { return is(err, transport) }

// ValidationError is a report of invalid or missing input fields, keyed by
// the field name as it appears on the wire.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidation(fields map[string][]string) error {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// AsValidation returns the validation report carried by err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var e *ValidationError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsValidation(err error) bool {
	_, ok := AsValidation(err)
	return ok
}
