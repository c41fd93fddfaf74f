package config

import "errors"

// Errors returned by Load and Validate. Both wrap the underlying cause.
var (
	ErrInvalidConfig = errors.New("gradebook config rejected")
	ErrLoadConfig    = errors.New("gradebook config unreadable")
)
