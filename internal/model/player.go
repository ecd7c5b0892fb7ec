package model

import "time"

// Player mirrors the 'players' table, the header row of the ranking module.
// Points always equal the initial baseline plus the sum of all live match
// deltas, except when an administrator overwrites the total directly.
type Player struct {
	ID        uint64
	Name      string
	Region    string
	Points    int64
	OwnerID   uint64
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// PlayerDetail mirrors the 'player_details' table, the one-to-one
// biographical extension of a player.
type PlayerDetail struct {
	ID          uint64
	PlayerID    uint64
	Photo       []byte
	Gender      string
	Nationality string
	BirthPlace  string
	BirthDate   string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// MatchHistory mirrors the 'match_histories' table. Points may be negative
// for a loss and nil when a match carries no point delta.
type MatchHistory struct {
	ID        uint64
	PlayerID  uint64
	Title     string
	MatchDate *time.Time
	Level     string
	Result    string
	Points    *int64
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// MatchPointsOrZero treats a missing delta as zero for ledger arithmetic.
func (m *MatchHistory) MatchPointsOrZero() int64 {
	if m.Points == nil {
		return 0
	}
	return *m.Points
}
