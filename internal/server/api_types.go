package server

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ============================================================================
// ERROR RESPONSES
// ============================================================================
// tygo:generate
type ErrorMessage struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ============================================================================
// JOIN LEVEL (join_level)
// ============================================================================

// LevelTarget is the join_level destination: a level number or the menu.
// Clients send either a JSON number or the string "menu"; some send the level
// as a numeric string, which is accepted too.
type LevelTarget struct {
	Level int
	Menu  bool
}

func (l *LevelTarget) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "menu" {
			l.Menu = true
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid level %q", s)
		}
		l.Level = n
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	l.Level = n
	return nil
}

// tygo:generate
type JoinLevelRequest struct {
	Level LevelTarget `json:"level"`
}

// ============================================================================
// POSITION RELAY (player_update / phantom_update)
// ============================================================================

// PlayerUpdate is relayed verbatim to room peers; ID is attached server-side
// so receivers never have to trust a client-supplied identifier.
// tygo:generate
type PlayerUpdate struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"name"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Angle       float64 `json:"angle"`
	Lean        float64 `json:"lean"`
	PlayerColor string  `json:"playerColor"`
}

// tygo:generate
type PhantomLeave struct {
	ID string `json:"id"`
}

// ============================================================================
// LEADERBOARD (request_leaderboard / submit_time / leaderboard_data_<level>)
// ============================================================================
// tygo:generate
type LeaderboardRequest struct {
	Level int `json:"level"`
}

// tygo:generate
type SubmitTimeRequest struct {
	Level    int     `json:"level"`
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Time     float64 `json:"time"`
}

// tygo:generate
type LeaderboardEntry struct {
	PlayerName string  `json:"playerName"`
	Time       float64 `json:"time"`
}

// ============================================================================
// OCCUPANCY (room_counts broadcast)
// ============================================================================

// RoomCounts maps level numbers (as strings) to member counts, plus a "total"
// key with the server-wide connection count.
// tygo:generate
type RoomCounts map[string]int
