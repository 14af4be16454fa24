// Package ledger defines the contract for reading on-chain holdings.
//
// The real implementation sits behind a wallet SDK and is out of scope
// here; SimReader stands in for it the same way an in-memory scorer
// stands in for an external ML service.
package ledger

import (
	"context"
	"errors"

	"github.com/fancred/fancred/internal/domain/model"
)

// Sentinel kinds for ledger errors.
var (
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	ErrInvalidAccount    = errors.New("invalid account address")
)

// Reader reads the NFT count and fungible token balance for an account.
type Reader interface {
	// Read returns current holdings for accountID, honoring ctx for
	// cancellation and deadlines.
	Read(ctx context.Context, accountID string) (model.Holdings, error)
}
