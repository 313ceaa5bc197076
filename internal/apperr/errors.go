// Package apperr holds the sentinel errors shared by the gateway, services
// and HTTP layer. Wrap them with %w; callers match with errors.Is.
package apperr

import "errors"

var (
	// Invalid marks bad input: empty ids, unknown holiday types, mismatched schedules.
	Invalid = errors.New("invalid input")
	// Conflict marks a duplicate pickup date inside one stored snapshot.
	Conflict = errors.New("conflict")
	// NotFound marks an account, service or route the provider does not know.
	NotFound = errors.New("not found")
	// Unauthorized marks missing, rejected or expired provider credentials.
	Unauthorized = errors.New("unauthorized")
)
