package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

// OTP verification failures. The text is the user-facing message shown by the
// game client, so it stays in Persian.
var (
	// ErrCodeInvalid: no code on file for the phone (never issued or already consumed).
	ErrCodeInvalid = errors.New("کد تایید نامعتبر است")
	// ErrCodeExpired: the code outlived its TTL; the stale record is removed.
	ErrCodeExpired = errors.New("کد تایید منقضی شده است")
	// ErrCodeMismatch: wrong code; the record stays so the user can retry until expiry.
	ErrCodeMismatch = errors.New("کد تایید اشتباه است")
)
