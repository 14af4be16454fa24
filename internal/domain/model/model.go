// Package model contains domain models passed between layers.
package model

// Holdings carries the on-chain quantities read for one account.
// Values are fetched fresh per request and never cached beyond a single
// score computation.
type Holdings struct {
	NFTsHeld        int
	FungibleBalance float64
}

// ActivityRecord tracks the off-chain activity counters kept per account.
// Records are created lazily with baseline demo values on first lookup
// and live for the lifetime of the store.
type ActivityRecord struct {
	AccountID        string
	NFTsHeld         int // off-chain override used by the demo store
	RitualsCompleted int
	CHZBalance       float64 // mocked balance baseline for demo accounts
}

// ScoreSnapshot is the score payload served to the frontend.
type ScoreSnapshot struct {
	WalletAddress    string  `json:"walletAddress"`
	Score            int     `json:"score"`
	NFTsHeld         int     `json:"nftsHeld"`
	RitualsCompleted int     `json:"ritualsCompleted"`
	CHZBalance       float64 `json:"chzBalance"`
}

// LeaderboardEntry is one row of the ranked fan summary. Rank is the
// 1-based position after sorting by score descending; ties keep their
// input order.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	WalletAddress string `json:"walletAddress"`
	Score         int    `json:"score"`
	FanLevel      string `json:"fanLevel"`
	AvatarText    string `json:"avatarText"`
}

// Profile is the combined per-fan view served by /profile. Join metadata
// is mocked; in a production system it would come from a user database.
type Profile struct {
	WalletAddress    string  `json:"walletAddress"`
	SuperfanScore    int     `json:"superfanScore"`
	FanLevel         string  `json:"fanLevel"`
	NFTsHeld         int     `json:"nftsHeld"`
	RitualsCompleted int     `json:"ritualsCompleted"`
	CHZBalance       float64 `json:"chzBalance"`
	FandomTraits     string  `json:"fandomTraits"`
	JoinDate         string  `json:"joinDate"`
	Joined           string  `json:"joined"`
	BadgeArtworkURL  string  `json:"badgeArtworkUrl"`
}
