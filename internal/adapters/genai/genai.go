// Package genai defines the contract for the AI generation flows the
// dashboard consumes: badge artwork, fan quotes, score suggestions, and
// the fan analysis summary. Calls are opaque generate(prompt)->result
// operations; retries are left to the user.
package genai

import (
	"context"
	"errors"
)

// ErrGenerationFailed is returned when a generation call cannot produce
// a result. Callers surface it without automatic retry.
var ErrGenerationFailed = errors.New("generation failed")

// Kind selects one of the generation flows.
type Kind string

// Generation flows.
const (
	KindBadgeArtwork Kind = "badge_artwork"
	KindFanQuote     Kind = "fan_quote"
	KindSuggestions  Kind = "suggestions"
	KindFanAnalysis  Kind = "fan_analysis"
)

// Request carries the prompt context for one generation call. Only the
// fields relevant to the requested kind need to be set.
type Request struct {
	Kind             Kind
	WalletAddress    string
	FandomTraits     string
	FanActivity      string
	Score            int
	FanLevel         string
	NFTsHeld         int
	RitualsCompleted int
}

// Result is the output of a generation call. Text carries quotes and
// analysis summaries, Suggestions the suggestion list, and ImageURL the
// badge artwork location.
type Result struct {
	RequestID   string
	Kind        Kind
	Text        string
	Suggestions []string
	ImageURL    string
}

// Generator produces content for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}
