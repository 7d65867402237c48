package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrBadRequest      = errors.New("bad request")
	ErrStorage         = errors.New("storage failure")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Upload errors.
var (
	ErrNoFilesProvided = fmt.Errorf("no files provided: %w", ErrBadRequest)
	ErrInvalidFileType = fmt.Errorf("only image files are allowed: %w", ErrBadRequest)
)

// OTP verification errors. A missing entry is a client error; the rest are
// authentication failures.
var (
	ErrOTPNotPending = fmt.Errorf("no pending OTP for this email: %w", ErrBadRequest)
	ErrOTPExpired    = fmt.Errorf("OTP expired: %w", ErrUnauthorized)
	ErrOTPExhausted  = fmt.Errorf("too many incorrect attempts, request a new OTP: %w", ErrUnauthorized)
	ErrOTPIncorrect  = fmt.Errorf("incorrect OTP: %w", ErrUnauthorized)
)
