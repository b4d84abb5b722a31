package server

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func submission(level int, playerID string, time float64) ScoreSubmission {
	return ScoreSubmission{
		Level:    level,
		PlayerID: playerID,
		Name:     playerID,
		Color:    "#ff0000",
		Time:     time,
	}
}

// Test: First submission for a pair is stored
func TestMemoryScoreStore_Insert(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewMemoryScoreStore()

	accepted, err := store.SubmitTime(ctx, submission(1, "p1", 10.0))
	assert.NoError(err)
	assert.True(accepted)

	entries, err := store.TopTimes(ctx, 1)
	assert.NoError(err)
	assert.Len(entries, 1)
	assert.Equal(10.0, entries[0].Time)
}

// Test: Only a strictly better time overwrites
// Why: Core upsert-if-better semantics - equal or worse must not mutate
func TestMemoryScoreStore_ImproveOnly(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewMemoryScoreStore()

	store.SubmitTime(ctx, submission(1, "p1", 10.0))

	accepted, err := store.SubmitTime(ctx, submission(1, "p1", 8.0))
	assert.NoError(err)
	assert.True(accepted, "better time should be accepted")

	accepted, err = store.SubmitTime(ctx, submission(1, "p1", 8.0))
	assert.NoError(err)
	assert.False(accepted, "equal time should be rejected")

	accepted, err = store.SubmitTime(ctx, submission(1, "p1", 9.5))
	assert.NoError(err)
	assert.False(accepted, "worse time should be rejected")

	// One row per pair, holding the minimum
	entries, _ := store.TopTimes(ctx, 1)
	assert.Len(entries, 1)
	assert.Equal(8.0, entries[0].Time)
}

// Test: Times below the validity floor never touch the store
func TestMemoryScoreStore_RejectsBelowFloor(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewMemoryScoreStore()

	accepted, err := store.SubmitTime(ctx, submission(1, "p1", 1.5))
	assert.NoError(err)
	assert.False(accepted)

	entries, _ := store.TopTimes(ctx, 1)
	assert.Empty(entries)

	// Even with an existing worse record, a sub-floor time changes nothing
	store.SubmitTime(ctx, submission(1, "p1", 10.0))
	accepted, _ = store.SubmitTime(ctx, submission(1, "p1", 0.1))
	assert.False(accepted)

	entries, _ = store.TopTimes(ctx, 1)
	assert.Equal(10.0, entries[0].Time)
}

// Test: Leaderboard is capped at 10, sorted ascending, per level
func TestMemoryScoreStore_TopTimesOrderingAndCap(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewMemoryScoreStore()

	for i := 0; i < 15; i++ {
		store.SubmitTime(ctx, submission(2, string(rune('a'+i)), 20.0-float64(i)))
	}
	store.SubmitTime(ctx, submission(3, "other-level", 3.0))

	entries, err := store.TopTimes(ctx, 2)
	assert.NoError(err)
	assert.Len(entries, LeaderboardSize)

	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(entries[i-1].Time, entries[i].Time)
	}
	for _, e := range entries {
		assert.NotEqual("other-level", e.PlayerName, "levels must not leak into each other")
	}
}

// Test: Equal times rank by who achieved the time first
func TestMemoryScoreStore_TieBreakSubmissionOrder(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewMemoryScoreStore()

	store.SubmitTime(ctx, submission(1, "first", 5.0))
	store.SubmitTime(ctx, submission(1, "second", 5.0))

	entries, _ := store.TopTimes(ctx, 1)
	assert.Len(entries, 2)
	assert.Equal("first", entries[0].PlayerName)
	assert.Equal("second", entries[1].PlayerName)
}

// Test: Racing submissions for one pair leave exactly the minimum
// Why: Two submissions must never both win a partial update
func TestMemoryScoreStore_ConcurrentSubmissions(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := NewMemoryScoreStore()

	times := []float64{5.0, 3.0, 4.0}
	var wg sync.WaitGroup
	for _, tm := range times {
		wg.Add(1)
		go func(tm float64) {
			defer wg.Done()
			_, err := store.SubmitTime(ctx, submission(1, "racer", tm))
			assert.NoError(err)
		}(tm)
	}
	wg.Wait()

	entries, err := store.TopTimes(ctx, 1)
	assert.NoError(err)
	assert.Len(entries, 1, "exactly one row per (level, player)")
	assert.Equal(3.0, entries[0].Time)
}
