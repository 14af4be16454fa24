package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrNotConnected          = errors.New("wallet not connected or on wrong network")
	ErrTraitsRequired        = errors.New("fandom traits must be set first")
	ErrActivityRequired      = errors.New("fan activity description must not be empty")
	ErrScoreTooLow           = errors.New("score too low for badge artwork")
	ErrGenerationUnavailable = errors.New("no generator configured")
)
