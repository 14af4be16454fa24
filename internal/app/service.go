// Package app wires the activity store, ledger reader, and score engine
// into the operations served over HTTP: score reads, activity actions,
// the leaderboard, and fan profiles.
package app

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/fancred/fancred/internal/adapters/ledger"
	"github.com/fancred/fancred/internal/adapters/repository"
	"github.com/fancred/fancred/internal/domain/model"
	"github.com/fancred/fancred/internal/domain/score"
	"github.com/fancred/fancred/pkg/logger"
	"github.com/fancred/fancred/pkg/metrics"
)

// Defaults.
const (
	defaultReadTimeout = 5 * time.Second

	avatarOffset = 2 // skip the 0x prefix
	avatarLength = 2

	// Mocked join metadata; a user database would own these.
	maxJoinAgeDays  = 365
	badgeArtworkURL = "https://placehold.co/300x300.png"
	profileTraits   = "Traits live on the dashboard; on-chain data is read fresh per request."
)

// DefaultRoster is the demo leaderboard roster. One deliberately
// unknown address exercises the partial-failure path.
var DefaultRoster = []string{
	"0x22821210811e59de6A493A6C774134c311546554",
	"0x87971c681F613C5d15aA2e2425881204644e43A9",
	"0x41e412503a277A8A331742442D157A3485E92404",
	"0xAF3A7539D258169A187152E5A67434313B11e80C",
	"0x99539561B3361aC836e2C6A53145453664A93245",
	"0x4594285A483951A85bB66b579A59e866a4C15a1b",
	"0x8A1f34C3747514304481c92900a3e9d8919aA048",
	"0xC4B81d45A3c6043134440523C6415a6b0c8a6d71",
	"0x1234567890123456789012345678901234567890",
	"0x6B1B1bA4A7A77b10214A360819a5843A2335198C",
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the activity store backend.
func WithStore(s repository.Store) Option {
	return func(svc *Service) {
		if s != nil {
			svc.store = s
		}
	}
}

// WithLedger sets the holdings reader.
func WithLedger(r ledger.Reader) Option {
	return func(svc *Service) {
		if r != nil {
			svc.ledger = r
		}
	}
}

// WithRoster sets the accounts the leaderboard is built over.
func WithRoster(accounts []string) Option {
	return func(svc *Service) {
		if len(accounts) > 0 {
			svc.roster = append([]string(nil), accounts...)
		}
	}
}

// WithReadTimeout bounds each ledger read.
func WithReadTimeout(d time.Duration) Option {
	return func(svc *Service) {
		if d > 0 {
			svc.readTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(svc *Service) {
		if log != nil {
			svc.log = log
		}
	}
}

// Service implements the API dependencies for the score system.
type Service struct {
	mu sync.RWMutex

	store       repository.Store
	ledger      ledger.Reader
	roster      []string
	readTimeout time.Duration
	log         logger.Logger

	started bool
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	svc := &Service{
		roster:      DefaultRoster,
		readTimeout: defaultReadTimeout,
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Start initializes defaults for anything not injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.ledger == nil {
		s.ledger = ledger.NewSimReader()
	}
	s.started = true
	s.log.Info(ctx, "score service started",
		logger.Int("rosterSize", len(s.roster)))
	return nil
}

// Stop releases the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log.Error(context.Background(), "closing activity store", logger.Error(err))
	}
	s.started = false
}

// FetchScore returns the score snapshot for one account, creating a
// baseline activity record on first sight.
func (s *Service) FetchScore(ctx context.Context, accountID string) (model.ScoreSnapshot, error) {
	rec, err := s.store.GetOrCreate(ctx, accountID)
	if err != nil {
		return model.ScoreSnapshot{}, err
	}
	metrics.RecordScoreComputed()
	metrics.UpdateTrackedAccounts(s.store.Count(ctx))
	return s.snapshot(accountID, rec), nil
}

// ApplyAction applies one activity action and returns the updated
// snapshot plus a human-readable message.
func (s *Service) ApplyAction(ctx context.Context, accountID string, action repository.Action) (model.ScoreSnapshot, string, error) {
	rec, err := s.store.Apply(ctx, accountID, action)
	if err != nil {
		return model.ScoreSnapshot{}, "", err
	}
	metrics.RecordAction(string(action))

	snap := s.snapshot(accountID, rec)
	var note string
	switch action {
	case repository.ActionCompleteRitual:
		note = "Ritual completed! Your participation is noted."
	case repository.ActionAcquireNFT:
		note = "New NFT acquired! Your collection grows."
	}
	return snap, fmt.Sprintf("%s New score: %d", note, snap.Score), nil
}

// Leaderboard builds the ranked board over the configured roster. Reads
// fan out concurrently; an account whose holdings read fails scores as
// if it held nothing. Only a ledger that failed for every account is
// reported to the caller.
func (s *Service) Leaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveLeaderboardBuild(float64(time.Since(start).Milliseconds()))
	}()

	type row struct {
		account string
		points  int
	}
	rows := make([]row, len(s.roster))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i, account := range s.roster {
		i, account := i, account
		g.Go(func() error {
			holdings := s.readHoldings(gctx, account, &failed)

			rituals := 0
			if rec, err := s.store.GetOrCreate(gctx, account); err == nil {
				rituals = rec.RitualsCompleted
			}

			rows[i] = row{
				account: account,
				points:  score.Compute(holdings.NFTsHeld, rituals, holdings.FungibleBalance),
			}
			return nil
		})
	}
	_ = g.Wait() // per-account failures never propagate

	if n := len(s.roster); n > 0 && failed.Load() == int64(n) {
		return nil, fmt.Errorf("building leaderboard: %w", ledger.ErrLedgerUnavailable)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].points > rows[j].points })

	entries := make([]model.LeaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = model.LeaderboardEntry{
			Rank:          i + 1,
			WalletAddress: r.account,
			Score:         r.points,
			FanLevel:      string(score.LevelFor(r.points)),
			AvatarText:    avatarText(r.account),
		}
	}
	return entries, nil
}

// Profile returns the combined fan view. Unlike the leaderboard, a
// failed ledger read here is surfaced to the caller.
func (s *Service) Profile(ctx context.Context, accountID string) (model.Profile, error) {
	if accountID == "" {
		return model.Profile{}, repository.ErrInvalidAccount
	}

	rctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()
	holdings, err := s.ledger.Read(rctx, accountID)
	if err != nil {
		metrics.RecordLedgerReadFailure()
		return model.Profile{}, fmt.Errorf("reading holdings for %s: %w", accountID, err)
	}

	rituals := 0
	if rec, recErr := s.store.GetOrCreate(ctx, accountID); recErr == nil {
		rituals = rec.RitualsCompleted
	}

	points := score.Compute(holdings.NFTsHeld, rituals, holdings.FungibleBalance)
	joined := joinTime(accountID)
	return model.Profile{
		WalletAddress:    accountID,
		SuperfanScore:    points,
		FanLevel:         string(score.LevelFor(points)),
		NFTsHeld:         holdings.NFTsHeld,
		RitualsCompleted: rituals,
		CHZBalance:       holdings.FungibleBalance,
		FandomTraits:     profileTraits,
		JoinDate:         joined.Format("2006-01-02"),
		Joined:           humanize.Time(joined),
		BadgeArtworkURL:  badgeArtworkURL,
	}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"rosterSize": len(s.roster),
	}
	if s.started {
		n := s.store.Count(context.Background())
		stats["trackedAccounts"] = n
		metrics.UpdateTrackedAccounts(n)
	}
	return stats
}

// readHoldings degrades a failed read to zero holdings and counts it.
func (s *Service) readHoldings(ctx context.Context, account string, failed *atomic.Int64) model.Holdings {
	rctx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	holdings, err := s.ledger.Read(rctx, account)
	if err != nil {
		failed.Add(1)
		metrics.RecordLedgerReadFailure()
		s.log.Warn(ctx, "holdings read failed, scoring as zero",
			logger.String("account", account), logger.Error(err))
		return model.Holdings{}
	}
	return holdings
}

func (s *Service) snapshot(accountID string, rec model.ActivityRecord) model.ScoreSnapshot {
	return model.ScoreSnapshot{
		WalletAddress:    accountID,
		Score:            score.Compute(rec.NFTsHeld, rec.RitualsCompleted, rec.CHZBalance),
		NFTsHeld:         rec.NFTsHeld,
		RitualsCompleted: rec.RitualsCompleted,
		CHZBalance:       rec.CHZBalance,
	}
}

// avatarText is the two hex characters after the address prefix,
// upper-cased.
func avatarText(account string) string {
	if len(account) < avatarOffset+avatarLength {
		return ""
	}
	return strings.ToUpper(account[avatarOffset : avatarOffset+avatarLength])
}

// joinTime derives a stable mocked join date from the account id.
func joinTime(accountID string) time.Time {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(accountID)))
	days := int(h.Sum32() % maxJoinAgeDays)
	return time.Now().AddDate(0, 0, -days)
}
