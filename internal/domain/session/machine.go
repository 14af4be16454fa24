// Package session implements the wallet session state machine: an
// event-driven controller that tracks connection status and network
// correctness, and re-fetches the Superfan Score whenever either
// changes. A single goroutine owns all transitions, so overlapping
// wallet events cannot interleave mid-update.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fancred/fancred/internal/adapters/genai"
	"github.com/fancred/fancred/internal/domain/model"
	"github.com/fancred/fancred/internal/domain/score"
	"github.com/fancred/fancred/pkg/logger"
	"github.com/fancred/fancred/pkg/metrics"
)

// Defaults.
const (
	// DefaultChainID is the Chiliz Spicy testnet.
	DefaultChainID int64 = 88882

	// MinArtworkScore gates badge artwork generation.
	MinArtworkScore = 100

	defaultFetchTimeout = 10 * time.Second

	defaultFandomTraits = "Loves European football, collects vintage jerseys, travels for away matches."
)

// ScoreFetcher loads the current score snapshot for an account.
type ScoreFetcher interface {
	FetchScore(ctx context.Context, accountID string) (model.ScoreSnapshot, error)
}

// Option applies a configuration option to the Machine.
type Option func(*Machine)

// WithChainID sets the target chain the session must be on.
func WithChainID(id int64) Option {
	return func(m *Machine) {
		if id > 0 {
			m.chainID = id
		}
	}
}

// WithGenerator sets the AI generator used by Generate.
func WithGenerator(g genai.Generator) Option {
	return func(m *Machine) {
		if g != nil {
			m.generator = g
		}
	}
}

// WithFetchTimeout bounds each score fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.fetchTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the machine.
func WithLogger(log logger.Logger) Option {
	return func(m *Machine) {
		if log != nil {
			m.log = log
		}
	}
}

// Machine is the session state machine. Create with New, then Start;
// all reads go through Snapshot.
type Machine struct {
	source    EventSource
	fetcher   ScoreFetcher
	generator genai.Generator

	chainID      int64
	fetchTimeout time.Duration
	log          logger.Logger

	mu    sync.RWMutex
	state State

	// fetchToken identifies the most recent fetch for the current
	// account; results carrying any other token are stale and dropped.
	// Touched only on the run goroutine.
	fetchToken string

	runCtx context.Context
	calls  chan func()
	stop   chan struct{}
	done   chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a Machine consuming events from source and fetching
// scores through fetcher.
func New(source EventSource, fetcher ScoreFetcher, opts ...Option) *Machine {
	m := &Machine{
		source:       source,
		fetcher:      fetcher,
		chainID:      DefaultChainID,
		fetchTimeout: defaultFetchTimeout,
		log:          logger.Nop(),
		state: State{
			Status:       StatusDisconnected,
			FandomTraits: defaultFandomTraits,
		},
		calls: make(chan func()),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the event loop. Safe to call once.
func (m *Machine) Start(ctx context.Context) {
	m.startOnce.Do(func() {
		m.runCtx = ctx
		go m.run(ctx)
	})
}

// Stop halts the event loop and waits for it to exit.
func (m *Machine) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

// Snapshot returns a copy of the current session state.
func (m *Machine) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// SetFandomTraits stores the user's fandom description for generation
// prompts.
func (m *Machine) SetFandomTraits(traits string) {
	m.update(func(st *State) { st.FandomTraits = traits })
}

// RequestConnect asks the provider to connect. Ignored unless the
// session is disconnected; the outcome arrives as a wallet event.
func (m *Machine) RequestConnect(ctx context.Context) {
	m.do(func() {
		if m.state.Status != StatusDisconnected {
			return
		}
		m.update(func(st *State) {
			st.Status = StatusConnecting
			st.LastError = ""
		})
		metrics.RecordSessionTransition(string(StatusConnecting))
		go func() {
			if err := m.source.RequestConnect(ctx); err != nil {
				m.do(func() {
					m.handleEvent(WalletEvent{Type: EventProviderRejected, Err: err})
				})
			}
		}()
	})
}

// RequestSwitchNetwork asks the provider to move to the target chain.
// Ignored unless connected on the wrong network.
func (m *Machine) RequestSwitchNetwork(ctx context.Context) {
	m.do(func() {
		if m.state.Status != StatusConnected || m.state.OnCorrectNetwork {
			return
		}
		go func() {
			if err := m.source.RequestSwitchNetwork(ctx, m.chainID); err != nil {
				m.do(func() {
					m.handleEvent(WalletEvent{Type: EventSwitchResult, Succeeded: false, Err: err})
				})
			}
		}()
	})
}

// Disconnect resets the session and tells the provider to drop the
// connection. The reset happens immediately; an in-flight fetch or
// generation resolving afterwards is discarded.
func (m *Machine) Disconnect(ctx context.Context) {
	m.do(func() {
		m.reset("")
		go func() { _ = m.source.Disconnect(ctx) }()
	})
}

// Generate runs one AI flow for the connected account. The session must
// be connected on the correct network; badge artwork additionally
// requires fandom traits and a score of at least MinArtworkScore, and
// quotes require a fan activity description. The result is applied to
// the session only if the same account is still connected when the call
// resolves.
func (m *Machine) Generate(ctx context.Context, kind genai.Kind, fanActivity string) (genai.Result, error) {
	if m.generator == nil {
		return genai.Result{}, ErrGenerationUnavailable
	}
	st := m.Snapshot()
	if st.Status != StatusConnected || !st.OnCorrectNetwork {
		return genai.Result{}, ErrNotConnected
	}
	var sc ScoreResult
	if st.Score != nil {
		sc = *st.Score
	}

	switch kind {
	case genai.KindBadgeArtwork:
		if strings.TrimSpace(st.FandomTraits) == "" {
			return genai.Result{}, ErrTraitsRequired
		}
		if sc.Score < MinArtworkScore {
			return genai.Result{}, fmt.Errorf("%w: need %d, have %d", ErrScoreTooLow, MinArtworkScore, sc.Score)
		}
	case genai.KindFanQuote:
		if strings.TrimSpace(fanActivity) == "" {
			return genai.Result{}, ErrActivityRequired
		}
	}

	res, err := m.generator.Generate(ctx, genai.Request{
		Kind:             kind,
		WalletAddress:    st.Account,
		FandomTraits:     st.FandomTraits,
		FanActivity:      fanActivity,
		Score:            sc.Score,
		FanLevel:         string(sc.FanLevel),
		NFTsHeld:         sc.NFTsHeld,
		RitualsCompleted: sc.RitualsCompleted,
	})
	if err != nil {
		metrics.RecordGenerationFailure(string(kind))
		return genai.Result{}, err
	}
	metrics.RecordGeneration(string(kind))

	account := st.Account
	m.do(func() { m.applyGeneration(account, res) })
	return res, nil
}

// do runs fn on the event loop goroutine.
func (m *Machine) do(fn func()) {
	select {
	case m.calls <- fn:
	case <-m.stop:
	case <-m.done:
	}
}

func (m *Machine) run(ctx context.Context) {
	defer close(m.done)
	events := m.source.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.handleEvent(ev)
		case fn := <-m.calls:
			fn()
		}
	}
}

// handleEvent applies one wallet event. Runs on the loop goroutine.
func (m *Machine) handleEvent(ev WalletEvent) {
	m.log.Debug(m.runCtx, "wallet event",
		logger.String("type", string(ev.Type)),
		logger.String("account", ev.Account),
	)

	switch ev.Type {
	case EventProviderConfirmed:
		onTarget := ev.ChainID == m.chainID
		m.update(func(st *State) {
			st.Status = StatusConnected
			st.Account = ev.Account
			st.OnCorrectNetwork = onTarget
			st.LastError = ""
		})
		metrics.RecordSessionTransition(string(StatusConnected))
		if onTarget {
			m.beginFetch(ev.Account)
		} else {
			m.clearDerived("wrong network: please switch to the target chain")
		}

	case EventProviderRejected:
		reason := "connection failed"
		switch {
		case ev.UserCancelled:
			reason = "connection cancelled"
		case ev.Err != nil:
			reason = ev.Err.Error()
		}
		m.reset(reason)

	case EventAccountChanged:
		if m.state.Status != StatusConnected {
			return
		}
		onTarget := ev.ChainID == m.chainID
		m.update(func(st *State) {
			st.Account = ev.Account
			st.OnCorrectNetwork = onTarget
		})
		if onTarget {
			m.beginFetch(ev.Account)
		} else {
			m.clearDerived("wrong network: please switch to the target chain")
		}

	case EventChainChanged:
		if m.state.Status != StatusConnected {
			return
		}
		if ev.ChainID == m.chainID {
			m.update(func(st *State) {
				st.OnCorrectNetwork = true
				st.LastError = ""
			})
			// Defensive refresh: the provider may have replayed state
			// during the chain change.
			m.beginFetch(m.state.Account)
		} else {
			m.update(func(st *State) { st.OnCorrectNetwork = false })
			m.clearDerived("wrong network: please switch to the target chain")
		}

	case EventSwitchResult:
		if m.state.Status != StatusConnected {
			return
		}
		if ev.Succeeded {
			m.update(func(st *State) {
				st.OnCorrectNetwork = true
				st.LastError = ""
			})
			m.beginFetch(m.state.Account)
		} else {
			// Stays on the wrong network; only the error surfaces.
			m.update(func(st *State) { st.LastError = "network switch failed" })
		}

	case EventDisconnected:
		m.reset("")
	}
}

// beginFetch starts an async score fetch for account and arms the
// stale-response guard. Runs on the loop goroutine.
func (m *Machine) beginFetch(account string) {
	token := uuid.NewString()
	m.fetchToken = token
	m.update(func(st *State) { st.LoadingScore = true })

	ctx := m.runCtx
	go func() {
		fctx, cancel := context.WithTimeout(ctx, m.fetchTimeout)
		defer cancel()
		snap, err := m.fetcher.FetchScore(fctx, account)
		m.do(func() { m.finishFetch(token, account, snap, err) })
	}()
}

// finishFetch applies a fetch result unless it was superseded. Runs on
// the loop goroutine.
func (m *Machine) finishFetch(token, account string, snap model.ScoreSnapshot, err error) {
	if token != m.fetchToken {
		return // superseded by a later fetch
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Status != StatusConnected || !strings.EqualFold(m.state.Account, account) {
		return
	}

	m.state.LoadingScore = false
	if err != nil {
		m.log.Warn(m.runCtx, "score fetch failed",
			logger.String("account", account), logger.Error(err))
		m.state.Score = &ScoreResult{FanLevel: score.LevelRookie}
		m.state.LastError = "score fetch failed"
		return
	}
	m.state.Score = &ScoreResult{
		Score:            snap.Score,
		FanLevel:         score.LevelFor(snap.Score),
		NFTsHeld:         snap.NFTsHeld,
		RitualsCompleted: snap.RitualsCompleted,
		CHZBalance:       snap.CHZBalance,
	}
	m.state.LastError = ""
}

// applyGeneration stores a generation result if the same account is
// still connected on the correct network. Runs on the loop goroutine.
func (m *Machine) applyGeneration(account string, res genai.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Status != StatusConnected || !m.state.OnCorrectNetwork ||
		!strings.EqualFold(m.state.Account, account) {
		return
	}
	switch res.Kind {
	case genai.KindBadgeArtwork:
		m.state.BadgeArtworkURL = res.ImageURL
	case genai.KindFanQuote:
		m.state.FanQuote = res.Text
	case genai.KindSuggestions:
		m.state.Suggestions = append([]string(nil), res.Suggestions...)
	case genai.KindFanAnalysis:
		m.state.FanAnalysis = res.Text
	}
}

// clearDerived drops all session-scoped derived data but keeps the
// connection itself, e.g. on a network mismatch. Runs on the loop
// goroutine.
func (m *Machine) clearDerived(reason string) {
	m.fetchToken = ""
	m.update(func(st *State) {
		st.Score = nil
		st.LoadingScore = false
		st.BadgeArtworkURL = ""
		st.FanQuote = ""
		st.Suggestions = nil
		st.FanAnalysis = ""
		st.LastError = reason
	})
}

// reset returns the session to its initial state, keeping only the
// fandom traits. Runs on the loop goroutine.
func (m *Machine) reset(reason string) {
	m.fetchToken = ""
	m.update(func(st *State) {
		traits := st.FandomTraits
		*st = State{
			Status:       StatusDisconnected,
			FandomTraits: traits,
			LastError:    reason,
		}
	})
	metrics.RecordSessionTransition(string(StatusDisconnected))
}

// update mutates state under the lock so Snapshot readers never observe
// a torn write.
func (m *Machine) update(fn func(*State)) {
	m.mu.Lock()
	fn(&m.state)
	m.mu.Unlock()
}
