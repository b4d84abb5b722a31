package server

import "context"

// MinValidTime is the anti-cheat floor in seconds; faster submissions are
// considered impossible and never reach storage.
const MinValidTime = 2.0

// LeaderboardSize caps how many entries a leaderboard view carries.
const LeaderboardSize = 10

// ScoreSubmission is a finished run reported by a client. PlayerID is a
// persistent player identifier, stable across reconnects, and is the dedup
// key together with the level; the connection ID is deliberately not used.
type ScoreSubmission struct {
	Level    int
	PlayerID string
	Name     string
	Color    string
	Time     float64
}

// ScoreStore holds the best time per (level, player). Implementations must
// make SubmitTime atomic: two racing submissions for the same pair may never
// both apply a partial update, and a non-improving time never mutates the row.
type ScoreStore interface {
	// SubmitTime upserts the submission if it beats the stored time for
	// (level, playerID), or inserts it if the pair is new. Returns true only
	// when the store changed; below-floor and non-improving submissions
	// return false with a nil error.
	SubmitTime(ctx context.Context, sub ScoreSubmission) (bool, error)

	// TopTimes returns up to LeaderboardSize entries for a level, fastest
	// first, ties broken by who achieved the time first.
	TopTimes(ctx context.Context, level int) ([]LeaderboardEntry, error)
}
