package genai

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultSimLatency = 250 * time.Millisecond

// Option applies a configuration option to the SimGenerator.
type Option func(*SimGenerator)

// WithLatency sets the simulated generation latency.
func WithLatency(d time.Duration) Option {
	return func(g *SimGenerator) {
		if d > 0 {
			g.latency = d
		}
	}
}

// SimGenerator implements Generator with canned outputs and simulated
// latency, standing in for the hosted model backends.
type SimGenerator struct {
	latency time.Duration
}

var _ Generator = (*SimGenerator)(nil)

// NewSimGenerator creates a simulated generator.
func NewSimGenerator(opts ...Option) *SimGenerator {
	g := &SimGenerator{latency: defaultSimLatency}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a canned result for the requested kind.
func (g *SimGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %v", ErrGenerationFailed, ctx.Err())
	case <-time.After(g.latency):
	}

	res := Result{RequestID: uuid.NewString(), Kind: req.Kind}
	switch req.Kind {
	case KindBadgeArtwork:
		res.ImageURL = "https://placehold.co/300x300.png"
	case KindFanQuote:
		res.Text = fmt.Sprintf("Every match, every mile: %s. That's what being a fan means.", req.FanActivity)
	case KindSuggestions:
		res.Suggestions = []string{
			"Complete more match-day rituals to earn 20 points each.",
			"Grow your collection; every NFT adds 50 points.",
			fmt.Sprintf("You're at %d - hold more CHZ to close the gap to the next level.", req.Score),
		}
	case KindFanAnalysis:
		res.Text = fmt.Sprintf(
			"With a Superfan Score of %d you're a certified %s. %d NFTs and %d rituals show real commitment - keep it up and the next level is in reach.",
			req.Score, req.FanLevel, req.NFTsHeld, req.RitualsCompleted,
		)
	default:
		return Result{}, fmt.Errorf("%w: unknown kind %q", ErrGenerationFailed, req.Kind)
	}
	return res, nil
}
