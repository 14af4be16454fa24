package repository

import (
	"math/rand"
	"sync"
	"time"

	"github.com/fancred/fancred/internal/domain/model"
)

// BaselineGenerator seeds demo values for accounts with no prior record.
// The distribution is a demo default, not a contract; swap in a fixed
// generator for deterministic tests.
type BaselineGenerator interface {
	Baseline(accountID string) model.ActivityRecord
}

// Tiered distribution for plausible new-user values.
const (
	zeroNFTChance    = 0.2
	maxBaselineNFTs  = 4
	zeroRitualChance = 0.4
	maxBaselineRites = 6

	lowBalanceChance = 0.3
	midBalanceChance = 0.7
)

// randomBaseline draws tiered pseudo-random baselines: most accounts get
// a small positive NFT and ritual count, some start at zero, and the
// balance falls in one of three bands.
type randomBaseline struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomBaseline creates the default randomized generator.
func NewRandomBaseline() BaselineGenerator {
	return &randomBaseline{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // demo values, not security material
	}
}

func (g *randomBaseline) Baseline(accountID string) model.ActivityRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec := model.ActivityRecord{AccountID: accountID}
	if g.rng.Float64() >= zeroNFTChance {
		rec.NFTsHeld = g.rng.Intn(maxBaselineNFTs) + 1
	}
	if g.rng.Float64() >= zeroRitualChance {
		rec.RitualsCompleted = g.rng.Intn(maxBaselineRites) + 1
	}
	switch r := g.rng.Float64(); {
	case r < lowBalanceChance:
		rec.CHZBalance = float64(g.rng.Intn(100))
	case r < midBalanceChance:
		rec.CHZBalance = float64(g.rng.Intn(400) + 100)
	default:
		rec.CHZBalance = float64(g.rng.Intn(1000) + 500)
	}
	return rec
}

// FixedBaseline returns the same counters for every new account.
type FixedBaseline struct {
	Record model.ActivityRecord
}

func (f FixedBaseline) Baseline(accountID string) model.ActivityRecord {
	rec := f.Record
	rec.AccountID = accountID
	return rec
}
