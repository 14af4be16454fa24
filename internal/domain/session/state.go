package session

import (
	"github.com/fancred/fancred/internal/domain/score"
)

// Status is the wallet connection status.
type Status string

// Connection statuses. Network correctness is tracked separately so a
// connected-but-wrong-network session keeps its account visible.
const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// ScoreResult is the derived score view held by the session.
type ScoreResult struct {
	Score            int
	FanLevel         score.Level
	NFTsHeld         int
	RitualsCompleted int
	CHZBalance       float64
}

// State is a snapshot of the session. LoadingScore is a flag rather
// than a distinct status so the UI can keep showing a stale score while
// a refresh is in flight.
type State struct {
	Account          string
	Status           Status
	OnCorrectNetwork bool
	LoadingScore     bool
	Score            *ScoreResult

	// Session-scoped inputs and generated artifacts. All of these are
	// cleared on disconnect or network mismatch, except the traits.
	FandomTraits    string
	BadgeArtworkURL string
	FanQuote        string
	Suggestions     []string
	FanAnalysis     string

	// LastError is the most recent user-facing failure message, empty
	// when the last operation succeeded.
	LastError string
}

// clone returns a deep copy safe to hand to callers.
func (s State) clone() State {
	out := s
	if s.Score != nil {
		sc := *s.Score
		out.Score = &sc
	}
	if s.Suggestions != nil {
		out.Suggestions = append([]string(nil), s.Suggestions...)
	}
	return out
}
