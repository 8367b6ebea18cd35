// Package apperr holds the error taxonomy shared across services and
// handlers. Callers classify with errors.Is, so wrapping with %w is fine.
package apperr

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrProtectedAccount = errors.New("protected account")
	ErrWeakPassword     = errors.New("weak password")
	ErrDeliveryFailed   = errors.New("delivery failed")
	ErrRetentionExpired = errors.New("retention window expired")
)
