package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrBadFormat       = errors.New("submission is missing required fields")
	ErrGroupClosed     = errors.New("operations are closed for this group")
	ErrQuotaExhausted  = errors.New("no remaining allowance")
	ErrAPIUnavailable  = errors.New("tracking api unavailable")
	ErrInvalidArgument = errors.New("invalid argument")
)
