package server

import (
	"context"
	"sort"
	"sync"
	"time"
)

type scoreKey struct {
	level    int
	playerID string
}

type scoreRecord struct {
	name       string
	color      string
	time       float64
	achievedAt time.Time
	seq        int64 // insertion order, the tie-break for equal times
}

// MemoryScoreStore is a process-local ScoreStore with the same semantics as
// the Postgres backend. Used by tests and when the server runs without a
// database; everything is lost on restart.
type MemoryScoreStore struct {
	records map[scoreKey]scoreRecord
	nextSeq int64
	mu      sync.Mutex
}

func NewMemoryScoreStore() *MemoryScoreStore {
	return &MemoryScoreStore{
		records: make(map[scoreKey]scoreRecord),
	}
}

// SubmitTime applies the upsert-if-better under one lock, mirroring the
// single guarded SQL statement of the Postgres backend.
func (ms *MemoryScoreStore) SubmitTime(_ context.Context, sub ScoreSubmission) (bool, error) {
	if sub.Time < MinValidTime {
		return false, nil
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	key := scoreKey{level: sub.Level, playerID: sub.PlayerID}

	existing, exists := ms.records[key]
	if exists && sub.Time >= existing.time {
		return false, nil
	}

	// The seq survives updates, like the row id in Postgres: the tie-break
	// position belongs to the first insertion for the pair.
	seq := existing.seq
	if !exists {
		seq = ms.nextSeq
		ms.nextSeq++
	}

	ms.records[key] = scoreRecord{
		name:       sub.Name,
		color:      sub.Color,
		time:       sub.Time,
		achievedAt: time.Now(),
		seq:        seq,
	}
	return true, nil
}

func (ms *MemoryScoreStore) TopTimes(_ context.Context, level int) ([]LeaderboardEntry, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	type ranked struct {
		entry LeaderboardEntry
		seq   int64
	}

	var all []ranked
	for key, record := range ms.records {
		if key.level != level {
			continue
		}
		all = append(all, ranked{
			entry: LeaderboardEntry{PlayerName: record.name, Time: record.time},
			seq:   record.seq,
		})
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].entry.Time != all[j].entry.Time {
			return all[i].entry.Time < all[j].entry.Time
		}
		return all[i].seq < all[j].seq
	})

	if len(all) > LeaderboardSize {
		all = all[:LeaderboardSize]
	}

	entries := make([]LeaderboardEntry, 0, len(all))
	for _, r := range all {
		entries = append(entries, r.entry)
	}
	return entries, nil
}
