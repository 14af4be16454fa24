package repository_test

import (
	"context"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fancred/fancred/internal/adapters/repository"
	"github.com/fancred/fancred/internal/domain/model"
)

const testAccount = "0xABCdef0000000000000000000000000000000001"

func fixedStore() *repository.MemoryStore {
	return repository.NewMemoryStore(repository.WithBaseline(repository.FixedBaseline{
		Record: model.ActivityRecord{NFTsHeld: 2, RitualsCompleted: 3, CHZBalance: 100},
	}))
}

func TestMemoryStoreGetOrCreate(t *testing.T) {
	Convey("Given an empty store with a fixed baseline", t, func() {
		store := fixedStore()
		ctx := context.Background()

		Convey("An unseen account gets the baseline record", func() {
			rec, err := store.GetOrCreate(ctx, testAccount)
			So(err, ShouldBeNil)
			So(rec.AccountID, ShouldEqual, testAccount)
			So(rec.NFTsHeld, ShouldEqual, 2)
			So(rec.RitualsCompleted, ShouldEqual, 3)
			So(store.Count(ctx), ShouldEqual, 1)
		})

		Convey("A second lookup returns the same record, not a fresh one", func() {
			first, err := store.GetOrCreate(ctx, testAccount)
			So(err, ShouldBeNil)
			_, err = store.Apply(ctx, testAccount, repository.ActionCompleteRitual)
			So(err, ShouldBeNil)

			again, err := store.GetOrCreate(ctx, testAccount)
			So(err, ShouldBeNil)
			So(again.RitualsCompleted, ShouldEqual, first.RitualsCompleted+1)
			So(store.Count(ctx), ShouldEqual, 1)
		})

		Convey("An empty account id is rejected", func() {
			_, err := store.GetOrCreate(ctx, "")
			So(err, ShouldEqual, repository.ErrInvalidAccount)
		})
	})
}

func TestMemoryStoreApply(t *testing.T) {
	Convey("Given a store with a fixed baseline", t, func() {
		store := fixedStore()
		ctx := context.Background()

		Convey("complete_ritual increments rituals by exactly one", func() {
			rec, err := store.Apply(ctx, testAccount, repository.ActionCompleteRitual)
			So(err, ShouldBeNil)
			So(rec.RitualsCompleted, ShouldEqual, 4)
			So(rec.NFTsHeld, ShouldEqual, 2)
		})

		Convey("acquire_nft increments the NFT override by exactly one", func() {
			rec, err := store.Apply(ctx, testAccount, repository.ActionAcquireNFT)
			So(err, ShouldBeNil)
			So(rec.NFTsHeld, ShouldEqual, 3)
			So(rec.RitualsCompleted, ShouldEqual, 3)
		})

		Convey("An unknown action fails without mutating state", func() {
			_, err := store.Apply(ctx, testAccount, repository.Action("teleport"))
			So(err, ShouldEqual, repository.ErrInvalidAction)

			rec, err := store.GetOrCreate(ctx, testAccount)
			So(err, ShouldBeNil)
			So(rec.RitualsCompleted, ShouldEqual, 3)
			So(rec.NFTsHeld, ShouldEqual, 2)
		})

		Convey("Concurrent increments for one account lose no updates", func() {
			const (
				goroutines = 16
				perG       = 25
			)
			var wg sync.WaitGroup
			wg.Add(goroutines)
			for g := 0; g < goroutines; g++ {
				go func() {
					defer wg.Done()
					for i := 0; i < perG; i++ {
						_, _ = store.Apply(ctx, testAccount, repository.ActionCompleteRitual)
					}
				}()
			}
			wg.Wait()

			rec, err := store.GetOrCreate(ctx, testAccount)
			So(err, ShouldBeNil)
			So(rec.RitualsCompleted, ShouldEqual, 3+goroutines*perG)
		})

		Convey("Concurrent increments for different accounts stay isolated", func() {
			accounts := []string{
				"0x1111111111111111111111111111111111111111",
				"0x2222222222222222222222222222222222222222",
				"0x3333333333333333333333333333333333333333",
			}
			var wg sync.WaitGroup
			for _, account := range accounts {
				account := account
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 10; i++ {
						_, _ = store.Apply(ctx, account, repository.ActionAcquireNFT)
					}
				}()
			}
			wg.Wait()

			for _, account := range accounts {
				rec, err := store.GetOrCreate(ctx, account)
				So(err, ShouldBeNil)
				So(rec.NFTsHeld, ShouldEqual, 12)
			}
		})
	})
}

func TestRandomBaselineRanges(t *testing.T) {
	Convey("Given the default randomized baseline generator", t, func() {
		gen := repository.NewRandomBaseline()

		Convey("Generated values stay in their documented ranges", func() {
			for i := 0; i < 200; i++ {
				rec := gen.Baseline(testAccount)
				So(rec.NFTsHeld, ShouldBeBetweenOrEqual, 0, 4)
				So(rec.RitualsCompleted, ShouldBeBetweenOrEqual, 0, 6)
				So(rec.CHZBalance, ShouldBeGreaterThanOrEqualTo, 0)
				So(rec.CHZBalance, ShouldBeLessThan, 1500)
			}
		})
	})
}
