package config

import (
	"errors"
)

// Sentinel kinds for configuration errors, so callers can errors.Is
// between a bad value and a failed load.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
