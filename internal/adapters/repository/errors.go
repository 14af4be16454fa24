package repository

import "errors"

// Sentinel kinds for activity store errors.
var (
	ErrInvalidAccount = errors.New("account id must not be empty")
	ErrInvalidAction  = errors.New("invalid action type")
)
