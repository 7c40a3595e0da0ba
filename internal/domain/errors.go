package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotImplemented = errors.New("not implemented")
	ErrInvalidAmount  = errors.New("amount must be a finite number >= 0")
	ErrInvalidSystem  = errors.New("unknown measurement system")
	ErrInvalidMode    = errors.New("unknown display mode")
	ErrSessionClosed  = errors.New("view session is closed")
)
