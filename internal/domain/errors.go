package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrStore marks an artifact-store transport or provider failure.
	ErrStore = errors.New("storage failure")
	// ErrMail marks an outbound email delivery failure.
	ErrMail = errors.New("mail delivery failure")
	// ErrAlreadyVerified signals an idempotent no-op: the registration was
	// confirmed before this call. Handlers treat it as a success response,
	// not a failure.
	ErrAlreadyVerified = errors.New("already verified")
)
