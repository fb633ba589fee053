package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain errors:
//   - ErrNotFound: row does not exist, or is outside the caller's visible set
//   - ErrConflict: a unique constraint rejected the write
//   - ErrExpired: token has expired
//   - ErrAlreadyUsed: refresh token already rotated or blacklisted
//   - ErrInvalidState: entity in wrong state for the requested operation
//   - ErrUnavailable: backing service temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
