package server

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScoreStore is the durable ScoreStore backend.
type PostgresScoreStore struct {
	pool *pgxpool.Pool
}

func NewPostgresScoreStore(pool *pgxpool.Pool) *PostgresScoreStore {
	return &PostgresScoreStore{pool: pool}
}

// EnsureSchema creates the times table if it does not exist. The id sequence
// doubles as the tie-break for equal times: first achiever ranks higher.
func (ps *PostgresScoreStore) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS times (
			id BIGSERIAL PRIMARY KEY,
			level INTEGER NOT NULL,
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			color TEXT NOT NULL,
			time DOUBLE PRECISION NOT NULL,
			date_achieved TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (level, player_id)
		)
	`

	if _, err := ps.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create times table: %w", err)
	}
	return nil
}

// SubmitTime performs the upsert-if-better as one guarded statement. The
// WHERE clause on the conflict update means a non-improving submission
// affects zero rows, which is how a lost race reports itself; no retry is
// needed because the winning submission already holds the better time.
func (ps *PostgresScoreStore) SubmitTime(ctx context.Context, sub ScoreSubmission) (bool, error) {
	if sub.Time < MinValidTime {
		return false, nil
	}

	query := `
		INSERT INTO times (level, player_id, player_name, color, time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (level, player_id) DO UPDATE SET
			time = EXCLUDED.time,
			player_name = EXCLUDED.player_name,
			color = EXCLUDED.color,
			date_achieved = NOW()
		WHERE EXCLUDED.time < times.time
	`

	tag, err := ps.pool.Exec(ctx, query, sub.Level, sub.PlayerID, sub.Name, sub.Color, sub.Time)
	if err != nil {
		return false, fmt.Errorf("failed to save time for player %s on level %d: %w", sub.PlayerID, sub.Level, err)
	}

	return tag.RowsAffected() > 0, nil
}

// TopTimes returns the level's leaderboard, fastest first. Ordering by id on
// ties keeps the ranking submission-order stable.
func (ps *PostgresScoreStore) TopTimes(ctx context.Context, level int) ([]LeaderboardEntry, error) {
	query := `
		SELECT player_name, time FROM times
		WHERE level = $1
		ORDER BY time ASC, id ASC
		LIMIT $2
	`

	rows, err := ps.pool.Query(ctx, query, level, LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query top times for level %d: %w", level, err)
	}
	defer rows.Close()

	entries := make([]LeaderboardEntry, 0, LeaderboardSize)
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.PlayerName, &entry.Time); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	return entries, nil
}
