package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fancred/fancred/internal/adapters/ledger"
	"github.com/fancred/fancred/internal/adapters/repository"
	"github.com/fancred/fancred/internal/app"
	"github.com/fancred/fancred/internal/domain/model"
	"github.com/fancred/fancred/internal/domain/score"
)

// stubLedger serves fixed holdings per account and fails the rest.
type stubLedger struct {
	holdings map[string]model.Holdings
	failAll  bool
}

func (s *stubLedger) Read(_ context.Context, accountID string) (model.Holdings, error) {
	if s.failAll {
		return model.Holdings{}, ledger.ErrLedgerUnavailable
	}
	h, ok := s.holdings[strings.ToLower(accountID)]
	if !ok {
		return model.Holdings{}, fmt.Errorf("resolving %s: %w", accountID, ledger.ErrLedgerUnavailable)
	}
	return h, nil
}

func zeroStore() repository.Store {
	return repository.NewMemoryStore(
		repository.WithBaseline(repository.FixedBaseline{}),
	)
}

func startService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	svc := app.New(opts...)
	So(svc.Start(context.Background()), ShouldBeNil)
	t.Cleanup(svc.Stop)
	return svc
}

func TestServiceScoreFlow(t *testing.T) {
	Convey("Given a service over a zeroed memory store", t, func() {
		ctx := context.Background()

		Convey("FetchScore creates a baseline record on first sight", func() {
			svc := startService(t, app.WithStore(zeroStore()))

			snap, err := svc.FetchScore(ctx, "0xabc1")
			So(err, ShouldBeNil)
			So(snap.WalletAddress, ShouldEqual, "0xabc1")
			So(snap.Score, ShouldEqual, 0)
			So(snap.NFTsHeld, ShouldEqual, 0)
		})

		Convey("FetchScore propagates an empty account id error", func() {
			svc := startService(t, app.WithStore(zeroStore()))

			_, err := svc.FetchScore(ctx, "")
			So(errors.Is(err, repository.ErrInvalidAccount), ShouldBeTrue)
		})

		Convey("ApplyAction increments the right counter and words the message", func() {
			svc := startService(t, app.WithStore(zeroStore()))

			snap, msg, err := svc.ApplyAction(ctx, "0xabc1", repository.ActionCompleteRitual)
			So(err, ShouldBeNil)
			So(snap.RitualsCompleted, ShouldEqual, 1)
			So(snap.Score, ShouldEqual, 20)
			So(msg, ShouldEqual, "Ritual completed! Your participation is noted. New score: 20")

			snap, msg, err = svc.ApplyAction(ctx, "0xabc1", repository.ActionAcquireNFT)
			So(err, ShouldBeNil)
			So(snap.NFTsHeld, ShouldEqual, 1)
			So(snap.RitualsCompleted, ShouldEqual, 1)
			So(snap.Score, ShouldEqual, 70)
			So(msg, ShouldEqual, "New NFT acquired! Your collection grows. New score: 70")
		})

		Convey("Two rituals in a row accumulate", func() {
			svc := startService(t, app.WithStore(zeroStore()))

			_, _, err := svc.ApplyAction(ctx, "0xabc1", repository.ActionCompleteRitual)
			So(err, ShouldBeNil)
			snap, _, err := svc.ApplyAction(ctx, "0xabc1", repository.ActionCompleteRitual)
			So(err, ShouldBeNil)
			So(snap.RitualsCompleted, ShouldEqual, 2)
			So(snap.Score, ShouldEqual, 40)
		})

		Convey("ApplyAction rejects an unknown action", func() {
			svc := startService(t, app.WithStore(zeroStore()))

			_, _, err := svc.ApplyAction(ctx, "0xabc1", repository.Action("stake_tokens"))
			So(errors.Is(err, repository.ErrInvalidAction), ShouldBeTrue)
		})
	})
}

func TestServiceLeaderboard(t *testing.T) {
	Convey("Given a roster with known holdings", t, func() {
		ctx := context.Background()

		roster := []string{
			"0xAA00000000000000000000000000000000000001",
			"0xBB00000000000000000000000000000000000002",
			"0xCC00000000000000000000000000000000000003",
			"0xDD00000000000000000000000000000000000004",
		}
		reader := &stubLedger{holdings: map[string]model.Holdings{
			strings.ToLower(roster[0]): {NFTsHeld: 2},                       // 100
			strings.ToLower(roster[1]): {NFTsHeld: 0},                       // 0
			strings.ToLower(roster[2]): {NFTsHeld: 2},                       // 100, ties with [0]
			strings.ToLower(roster[3]): {NFTsHeld: 1, FungibleBalance: 20},  // 60
		}}

		Convey("Entries come back ranked descending with positional ranks", func() {
			svc := startService(t,
				app.WithStore(zeroStore()),
				app.WithLedger(reader),
				app.WithRoster(roster),
			)

			entries, err := svc.Leaderboard(ctx)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 4)

			So(entries[0].Score, ShouldEqual, 100)
			So(entries[1].Score, ShouldEqual, 100)
			So(entries[2].Score, ShouldEqual, 60)
			So(entries[3].Score, ShouldEqual, 0)

			for i, e := range entries {
				So(e.Rank, ShouldEqual, i+1)
			}

			// Stable sort keeps roster order within the tie.
			So(entries[0].WalletAddress, ShouldEqual, roster[0])
			So(entries[1].WalletAddress, ShouldEqual, roster[2])

			So(entries[0].FanLevel, ShouldEqual, string(score.LevelRookie))
			So(entries[0].AvatarText, ShouldEqual, "AA")
			So(entries[3].AvatarText, ShouldEqual, "BB")
		})

		Convey("Ritual counts from the store feed the board", func() {
			store := zeroStore()
			svc := startService(t,
				app.WithStore(store),
				app.WithLedger(reader),
				app.WithRoster(roster),
			)

			// Push the zero-holdings account past the tie.
			for i := 0; i < 6; i++ {
				_, _, err := svc.ApplyAction(ctx, roster[1], repository.ActionCompleteRitual)
				So(err, ShouldBeNil)
			}

			entries, err := svc.Leaderboard(ctx)
			So(err, ShouldBeNil)
			So(entries[0].WalletAddress, ShouldEqual, roster[1])
			So(entries[0].Score, ShouldEqual, 120)
		})

		Convey("A single failing account scores as zero instead of failing the board", func() {
			withGhost := append(append([]string(nil), roster...),
				"0x1234567890123456789012345678901234567890")
			svc := startService(t,
				app.WithStore(zeroStore()),
				app.WithLedger(reader),
				app.WithRoster(withGhost),
			)

			entries, err := svc.Leaderboard(ctx)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 5)
			So(entries[len(entries)-1].Score, ShouldEqual, 0)
		})

		Convey("A ledger that fails every read is surfaced", func() {
			svc := startService(t,
				app.WithStore(zeroStore()),
				app.WithLedger(&stubLedger{failAll: true}),
				app.WithRoster(roster),
			)

			_, err := svc.Leaderboard(ctx)
			So(errors.Is(err, ledger.ErrLedgerUnavailable), ShouldBeTrue)
		})
	})
}

func TestServiceProfile(t *testing.T) {
	Convey("Given a service with a stub ledger", t, func() {
		ctx := context.Background()
		account := "0xAA00000000000000000000000000000000000001"
		reader := &stubLedger{holdings: map[string]model.Holdings{
			strings.ToLower(account): {NFTsHeld: 3, FungibleBalance: 250},
		}}

		Convey("The profile combines holdings, rituals, and mocked metadata", func() {
			svc := startService(t, app.WithStore(zeroStore()), app.WithLedger(reader))

			_, _, err := svc.ApplyAction(ctx, account, repository.ActionCompleteRitual)
			So(err, ShouldBeNil)

			p, err := svc.Profile(ctx, account)
			So(err, ShouldBeNil)
			So(p.WalletAddress, ShouldEqual, account)
			So(p.NFTsHeld, ShouldEqual, 3)
			So(p.RitualsCompleted, ShouldEqual, 1)
			So(p.CHZBalance, ShouldEqual, 250.0)
			// 3*50 + 1*20 + floor(250/10)*5 capped at 500 -> 125.
			So(p.SuperfanScore, ShouldEqual, 295)
			So(p.FanLevel, ShouldEqual, string(score.LevelRookie))
			So(p.JoinDate, ShouldNotBeEmpty)
			So(p.Joined, ShouldNotBeEmpty)
			So(p.BadgeArtworkURL, ShouldContainSubstring, "placehold.co")
		})

		Convey("The join date is stable per account", func() {
			svc := startService(t, app.WithStore(zeroStore()), app.WithLedger(reader))

			first, err := svc.Profile(ctx, account)
			So(err, ShouldBeNil)
			second, err := svc.Profile(ctx, account)
			So(err, ShouldBeNil)
			So(second.JoinDate, ShouldEqual, first.JoinDate)
		})

		Convey("A failed ledger read is surfaced, unlike on the leaderboard", func() {
			svc := startService(t, app.WithStore(zeroStore()), app.WithLedger(reader))

			_, err := svc.Profile(ctx, "0xFF00000000000000000000000000000000000009")
			So(errors.Is(err, ledger.ErrLedgerUnavailable), ShouldBeTrue)
		})

		Convey("An empty account id is rejected up front", func() {
			svc := startService(t, app.WithStore(zeroStore()), app.WithLedger(reader))

			_, err := svc.Profile(ctx, "")
			So(errors.Is(err, repository.ErrInvalidAccount), ShouldBeTrue)
		})
	})
}

func TestServiceStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(t, app.WithStore(zeroStore()))

		Convey("Stats report the tracked account count", func() {
			_, err := svc.FetchScore(context.Background(), "0xabc1")
			So(err, ShouldBeNil)

			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["trackedAccounts"], ShouldEqual, 1)
			So(stats["rosterSize"], ShouldEqual, len(app.DefaultRoster))
		})
	})
}
