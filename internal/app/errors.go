package service

import "errors"

// Sentinel kinds for service errors. Store errors pass through unchanged and
// are matched with the repository sentinels.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrInvalidPayment = errors.New("payment amount must be positive")
	ErrLimitExceeded  = errors.New("limit exceeds maximum")
	ErrInvalidLimit   = errors.New("limit must not be negative")
)
