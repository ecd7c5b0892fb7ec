package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/arenahub/arena-backend/internal/database"
	"github.com/arenahub/arena-backend/internal/model"
)

// MatchRepo persists match history rows and keeps the owning player's point
// total synchronized with them. Every mutation runs in one transaction:
// the match row and the total move together or not at all. The total is
// adjusted server-side (points = points + ?) so concurrent writes to the
// same player cannot lose updates.
type MatchRepo struct{ DB *sql.DB }

func NewMatchRepo(db *sql.DB) *MatchRepo { return &MatchRepo{DB: db} }

// MatchPatch carries a sparse update: nil fields keep their stored value.
type MatchPatch struct {
	Title     *string
	MatchDate *time.Time
	Level     *string
	Result    *string
	Points    *int64
}

// PointsAdjustment reports the effect of a ledger mutation on the owning
// player, for caller visibility.
type PointsAdjustment struct {
	MatchID     uint64 `json:"match_id"`
	PlayerID    uint64 `json:"player_id"`
	PlayerName  string `json:"player_name"`
	OldTotal    int64  `json:"old_points"`
	NewTotal    int64  `json:"new_points"`
	MatchPoints int64  `json:"match_points"`
}

// AddWithPoints inserts a match row and adds its point delta to the owning
// player's total. The player row is locked first so the reported old/new
// totals are exact under concurrency.
func (r *MatchRepo) AddWithPoints(ctx context.Context, m *model.MatchHistory) (PointsAdjustment, error) {
	var adj PointsAdjustment
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var (
			name   string
			points int64
		)
		err := tx.QueryRowContext(ctx,
			"SELECT name, points FROM players WHERE id=? AND deleted_at IS NULL FOR UPDATE",
			m.PlayerID).Scan(&name, &points)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrPlayerNotFound
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			"INSERT INTO match_histories (player_id, title, match_date, level, result, points) VALUES (?,?,?,?,?,?)",
			m.PlayerID, m.Title, m.MatchDate, m.Level, m.Result, m.Points)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		m.ID = uint64(id)

		delta := m.MatchPointsOrZero()
		if _, err := tx.ExecContext(ctx,
			"UPDATE players SET points = points + ?, updated_at=NOW() WHERE id=?",
			delta, m.PlayerID); err != nil {
			return err
		}

		adj = PointsAdjustment{
			MatchID:     m.ID,
			PlayerID:    m.PlayerID,
			PlayerName:  name,
			OldTotal:    points,
			NewTotal:    points + delta,
			MatchPoints: delta,
		}
		return nil
	})
	return adj, err
}

// UpdateSparse patches a live match row. When a new point value is
// supplied, only the difference against the stored value moves the
// player's total; omitting it leaves the total untouched.
func (r *MatchRepo) UpdateSparse(ctx context.Context, matchID uint64, patch MatchPatch) (PointsAdjustment, error) {
	var adj PointsAdjustment
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var (
			playerID    uint64
			matchPoints sql.NullInt64
			playerName  string
			playerTotal int64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT m.player_id, m.points, p.name, p.points
			 FROM match_histories m JOIN players p ON p.id = m.player_id
			 WHERE m.id=? AND m.deleted_at IS NULL FOR UPDATE`,
			matchID).Scan(&playerID, &matchPoints, &playerName, &playerTotal)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrMatchNotFound
		}
		if err != nil {
			return err
		}

		oldMatchPoints := int64(0)
		if matchPoints.Valid {
			oldMatchPoints = matchPoints.Int64
		}

		set := []string{}
		args := []any{}
		if patch.Title != nil {
			set = append(set, "title=?")
			args = append(args, *patch.Title)
		}
		if patch.MatchDate != nil {
			set = append(set, "match_date=?")
			args = append(args, *patch.MatchDate)
		}
		if patch.Level != nil {
			set = append(set, "level=?")
			args = append(args, *patch.Level)
		}
		if patch.Result != nil {
			set = append(set, "result=?")
			args = append(args, *patch.Result)
		}
		if patch.Points != nil {
			set = append(set, "points=?")
			args = append(args, *patch.Points)
		}
		if len(set) > 0 {
			set = append(set, "updated_at=NOW()")
			args = append(args, matchID)
			if _, err := tx.ExecContext(ctx,
				"UPDATE match_histories SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
				return err
			}
		}

		newMatchPoints := oldMatchPoints
		var diff int64
		if patch.Points != nil {
			newMatchPoints = *patch.Points
			diff = newMatchPoints - oldMatchPoints
		}
		if diff != 0 {
			if _, err := tx.ExecContext(ctx,
				"UPDATE players SET points = points + ?, updated_at=NOW() WHERE id=?",
				diff, playerID); err != nil {
				return err
			}
		}

		adj = PointsAdjustment{
			MatchID:     matchID,
			PlayerID:    playerID,
			PlayerName:  playerName,
			OldTotal:    playerTotal,
			NewTotal:    playerTotal + diff,
			MatchPoints: newMatchPoints,
		}
		return nil
	})
	return adj, err
}

// SoftDelete tombstones a match row and subtracts its points from the
// owning player, restoring the total as if the match was never recorded.
func (r *MatchRepo) SoftDelete(ctx context.Context, matchID uint64) (PointsAdjustment, error) {
	var adj PointsAdjustment
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var (
			playerID    uint64
			matchPoints sql.NullInt64
			playerName  string
			playerTotal int64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT m.player_id, m.points, p.name, p.points
			 FROM match_histories m JOIN players p ON p.id = m.player_id
			 WHERE m.id=? AND m.deleted_at IS NULL FOR UPDATE`,
			matchID).Scan(&playerID, &matchPoints, &playerName, &playerTotal)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrMatchNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE match_histories SET deleted_at=NOW() WHERE id=?", matchID); err != nil {
			return err
		}

		pts := int64(0)
		if matchPoints.Valid {
			pts = matchPoints.Int64
		}
		if pts != 0 {
			if _, err := tx.ExecContext(ctx,
				"UPDATE players SET points = points - ?, updated_at=NOW() WHERE id=?",
				pts, playerID); err != nil {
				return err
			}
		}

		adj = PointsAdjustment{
			MatchID:     matchID,
			PlayerID:    playerID,
			PlayerName:  playerName,
			OldTotal:    playerTotal,
			NewTotal:    playerTotal - pts,
			MatchPoints: pts,
		}
		return nil
	})
	return adj, err
}
