package score_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fancred/fancred/internal/domain/score"
)

func TestCompute(t *testing.T) {
	Convey("Given the Superfan Score formula", t, func() {
		Convey("Zero inputs yield zero", func() {
			So(score.Compute(0, 0, 0), ShouldEqual, 0)
		})

		Convey("Each NFT is worth 50 points", func() {
			So(score.Compute(1, 0, 0), ShouldEqual, 50)
			So(score.Compute(3, 0, 0), ShouldEqual, 150)
		})

		Convey("Each ritual is worth 20 points", func() {
			So(score.Compute(0, 1, 0), ShouldEqual, 20)
			So(score.Compute(0, 5, 0), ShouldEqual, 100)
		})

		Convey("Balance contributes 5 points per full 10 tokens", func() {
			So(score.Compute(0, 0, 9.99), ShouldEqual, 0)
			So(score.Compute(0, 0, 10), ShouldEqual, 5)
			So(score.Compute(0, 0, 150), ShouldEqual, 75)
		})

		Convey("The balance term caps at 500 no matter the balance", func() {
			So(score.Compute(0, 0, 1000), ShouldEqual, 500)
			So(score.Compute(0, 0, 1_000_000), ShouldEqual, 500)
			So(score.Compute(0, 0, 1e15), ShouldEqual, 500)
		})

		Convey("The total clamps at 1000", func() {
			// 20 NFTs already hit the cap.
			So(score.Compute(20, 0, 0), ShouldEqual, 1000)
			So(score.Compute(100, 100, 1_000_000), ShouldEqual, 1000)
		})

		Convey("Mixed inputs sum before clamping", func() {
			// 2*50 + 5*20 + 150/10*5 = 275
			So(score.Compute(2, 5, 150), ShouldEqual, 275)
		})

		Convey("The result stays within [0, 1000] across a sweep", func() {
			for nfts := 0; nfts <= 30; nfts += 3 {
				for rituals := 0; rituals <= 30; rituals += 5 {
					for _, bal := range []float64{0, 7, 99.5, 1234, 1e9} {
						got := score.Compute(nfts, rituals, bal)
						So(got, ShouldBeGreaterThanOrEqualTo, 0)
						So(got, ShouldBeLessThanOrEqualTo, score.MaxScore)
					}
				}
			}
		})
	})
}

func TestLevelFor(t *testing.T) {
	Convey("Given the fan-level bands", t, func() {
		Convey("Zero score is Rookie", func() {
			So(score.LevelFor(0), ShouldEqual, score.LevelRookie)
		})

		Convey("Exactly 300 is still Rookie", func() {
			So(score.LevelFor(300), ShouldEqual, score.LevelRookie)
		})

		Convey("301 crosses into Pro", func() {
			So(score.LevelFor(301), ShouldEqual, score.LevelPro)
		})

		Convey("Exactly 700 is still Pro", func() {
			So(score.LevelFor(700), ShouldEqual, score.LevelPro)
		})

		Convey("701 crosses into Legend", func() {
			So(score.LevelFor(701), ShouldEqual, score.LevelLegend)
		})

		Convey("The cap is Legend", func() {
			So(score.LevelFor(1000), ShouldEqual, score.LevelLegend)
		})
	})
}
