package service

import "errors"

var ( // Terminal, client-surfaced outcomes. None are retried internally.
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrResetPending       = errors.New("a reset code was already sent")
	ErrInvalidCode        = errors.New("invalid or expired code")
)
