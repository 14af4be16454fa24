// Package repository defines the activity store interface and errors.
//
// The store keeps per-account activity counters behind key-value
// semantics. Implementations must serialize mutations for the same
// account while leaving different accounts free to proceed.
package repository

import (
	"context"

	"github.com/fancred/fancred/internal/domain/model"
)

// Action names a mutation applied to one activity record.
type Action string

// Supported actions.
const (
	ActionCompleteRitual Action = "complete_ritual"
	ActionAcquireNFT     Action = "acquire_nft"
)

// Valid reports whether the action tag is one the store knows.
func (a Action) Valid() bool {
	return a == ActionCompleteRitual || a == ActionAcquireNFT
}

// Store provides keyed access to per-account activity records.
type Store interface {
	// GetOrCreate returns the record for accountID, seeding a baseline
	// record on first sight of the account.
	GetOrCreate(ctx context.Context, accountID string) (model.ActivityRecord, error)

	// Apply increments the counter named by action by exactly one and
	// returns the updated record. On an unknown action the store
	// returns ErrInvalidAction and leaves the record untouched.
	Apply(ctx context.Context, accountID string, action Action) (model.ActivityRecord, error)

	// Count returns the number of accounts tracked.
	Count(ctx context.Context) int

	// Close releases any resources held by the store.
	Close() error
}
