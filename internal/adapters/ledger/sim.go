package ledger

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/fancred/fancred/internal/domain/model"
)

// Default simulation parameters.
const (
	defaultMinLatency = 20 * time.Millisecond
	defaultMaxLatency = 80 * time.Millisecond

	addressPrefix    = "0x"
	minAddressLength = 4

	maxSimNFTs    = 12
	maxSimBalance = 2500
)

// Option applies a configuration option to the SimReader.
type Option func(*SimReader)

// WithLatencyRange sets the simulated RPC latency range.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(r *SimReader) {
		if minLatency > 0 && maxLatency > minLatency {
			r.minLatency = minLatency
			r.maxLatency = maxLatency
		}
	}
}

// WithFailingAccounts marks addresses whose reads fail with
// ErrLedgerUnavailable, to exercise partial-failure paths.
func WithFailingAccounts(accounts ...string) Option {
	return func(r *SimReader) {
		for _, a := range accounts {
			r.failing[strings.ToLower(a)] = struct{}{}
		}
	}
}

// SimReader implements Reader with deterministic per-address holdings
// and simulated RPC latency.
type SimReader struct {
	minLatency time.Duration
	maxLatency time.Duration
	failing    map[string]struct{} // lowercased addresses

	mu  sync.Mutex
	rng *rand.Rand // latency jitter only; holdings stay deterministic
}

var _ Reader = (*SimReader)(nil)

// NewSimReader creates a simulated ledger reader.
func NewSimReader(opts ...Option) *SimReader {
	r := &SimReader{
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		failing:    make(map[string]struct{}),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // latency jitter only
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read returns holdings derived from a hash of the address, so repeated
// reads for the same account agree.
func (r *SimReader) Read(ctx context.Context, accountID string) (model.Holdings, error) {
	if !strings.HasPrefix(accountID, addressPrefix) || len(accountID) < minAddressLength {
		return model.Holdings{}, fmt.Errorf("%w: %q", ErrInvalidAccount, accountID)
	}

	select {
	case <-ctx.Done():
		return model.Holdings{}, fmt.Errorf("ledger read cancelled: %w", ctx.Err())
	case <-time.After(r.latency()):
	}

	key := strings.ToLower(accountID)
	if _, bad := r.failing[key]; bad {
		return model.Holdings{}, fmt.Errorf("%w: %s", ErrLedgerUnavailable, accountID)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum32()
	return model.Holdings{
		NFTsHeld:        int(sum % maxSimNFTs),
		FungibleBalance: float64(sum % maxSimBalance),
	}, nil
}

func (r *SimReader) latency() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.minLatency + time.Duration(r.rng.Int63n(int64(r.maxLatency-r.minLatency)))
}
