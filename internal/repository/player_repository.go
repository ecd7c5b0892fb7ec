package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arenahub/arena-backend/internal/database"
	"github.com/arenahub/arena-backend/internal/model"
)

// PlayerRepo persists ranking headers and their one-to-one detail rows.
// Rank is never stored; it is computed per read against the full
// non-deleted population.
type PlayerRepo struct{ DB *sql.DB }

func NewPlayerRepo(db *sql.DB) *PlayerRepo { return &PlayerRepo{DB: db} }

// rankExpr counts players with strictly more points, so tied players share
// a rank and the next distinct total resumes at 1 + strictly-better count.
const rankExpr = "(SELECT COUNT(*) + 1 FROM players p2 WHERE p2.deleted_at IS NULL AND p2.points > p.points)"

// PlayerPatch carries a sparse update: nil fields keep their stored value.
// Points, when set, overwrites the stored total directly (administrative
// override outside the ledger).
type PlayerPatch struct {
	Name        *string
	Region      *string
	Points      *int64
	Photo       []byte
	Gender      *string
	Nationality *string
	BirthPlace  *string
	BirthDate   *string
}

// RankedPlayer is a list row with its computed rank.
type RankedPlayer struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Points int64  `json:"points"`
	Rank   int    `json:"rank"`
}

// NameExists reports a case-insensitive name collision among non-deleted
// players, excluding one id for rename checks (0 excludes nothing).
func (r *PlayerRepo) NameExists(ctx context.Context, name string, excludeID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM players WHERE LOWER(name)=LOWER(?) AND deleted_at IS NULL AND id<>?",
		strings.TrimSpace(name), excludeID).Scan(&n)
	return n > 0, err
}

// Create inserts a player header and its detail row in one transaction and
// returns the new header id.
func (r *PlayerRepo) Create(ctx context.Context, p *model.Player, d *model.PlayerDetail) (uint64, error) {
	var id uint64
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO players (name, region, points, owner_id) VALUES (?,?,?,?)",
			strings.TrimSpace(p.Name), p.Region, p.Points, p.OwnerID)
		if err != nil {
			if isDuplicateKey(err) {
				return model.ErrDuplicatePlayerName
			}
			return err
		}
		hdrID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		id = uint64(hdrID)
		_, err = tx.ExecContext(ctx,
			"INSERT INTO player_details (player_id, photo, gender, nationality, birth_place, birth_date) VALUES (?,?,?,?,?,?)",
			id, d.Photo, d.Gender, d.Nationality, d.BirthPlace, d.BirthDate)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID fetches a non-deleted player header.
func (r *PlayerRepo) GetByID(ctx context.Context, id uint64) (model.Player, error) {
	var (
		p         model.Player
		updatedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, region, points, owner_id, created_at, updated_at FROM players WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Region, &p.Points, &p.OwnerID, &p.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Player{}, model.ErrPlayerNotFound
	}
	if err != nil {
		return model.Player{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	return p, nil
}

// List returns one page of non-deleted players ordered by points
// descending, each with its population-relative rank, plus the total count
// for the same filter. Search matches name or region case-insensitively.
func (r *PlayerRepo) List(ctx context.Context, page, pageSize int, search string) ([]RankedPlayer, int, error) {
	where := "WHERE p.deleted_at IS NULL"
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		where += " AND (LOWER(p.name) LIKE LOWER(?) OR LOWER(p.region) LIKE LOWER(?))"
		pattern := "%" + s + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM players p "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT p.id, p.name, p.region, p.points, " + rankExpr +
		" AS player_rank FROM players p " + where +
		" ORDER BY p.points DESC, p.id ASC LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]RankedPlayer, 0, pageSize)
	for rows.Next() {
		var rp RankedPlayer
		if err := rows.Scan(&rp.ID, &rp.Name, &rp.Region, &rp.Points, &rp.Rank); err != nil {
			return nil, 0, err
		}
		out = append(out, rp)
	}
	return out, total, rows.Err()
}

// Detail loads a player header with its rank, detail row and live match
// history ordered by match date descending (matches without a date last).
func (r *PlayerRepo) Detail(ctx context.Context, id uint64) (model.Player, int, model.PlayerDetail, []model.MatchHistory, error) {
	var (
		p         model.Player
		rank      int
		updatedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT p.id, p.name, p.region, p.points, p.owner_id, p.created_at, p.updated_at, "+rankExpr+
			" FROM players p WHERE p.id=? AND p.deleted_at IS NULL LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.Region, &p.Points, &p.OwnerID, &p.CreatedAt, &updatedAt, &rank)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Player{}, 0, model.PlayerDetail{}, nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return model.Player{}, 0, model.PlayerDetail{}, nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}

	var d model.PlayerDetail
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, player_id, photo, gender, nationality, birth_place, birth_date FROM player_details WHERE player_id=? LIMIT 1",
		id).Scan(&d.ID, &d.PlayerID, &d.Photo, &d.Gender, &d.Nationality, &d.BirthPlace, &d.BirthDate)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.Player{}, 0, model.PlayerDetail{}, nil, err
	}

	matches, err := r.matchesForPlayer(ctx, id)
	if err != nil {
		return model.Player{}, 0, model.PlayerDetail{}, nil, err
	}
	return p, rank, d, matches, nil
}

func (r *PlayerRepo) matchesForPlayer(ctx context.Context, playerID uint64) ([]model.MatchHistory, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, player_id, title, match_date, level, result, points, created_at, updated_at
		 FROM match_histories
		 WHERE player_id=? AND deleted_at IS NULL
		 ORDER BY (match_date IS NULL) ASC, match_date DESC, id DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchHistory
	for rows.Next() {
		var (
			m         model.MatchHistory
			matchDate sql.NullTime
			points    sql.NullInt64
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.PlayerID, &m.Title, &matchDate, &m.Level, &m.Result,
			&points, &m.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		if matchDate.Valid {
			t := matchDate.Time
			m.MatchDate = &t
		}
		if points.Valid {
			v := points.Int64
			m.Points = &v
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			m.UpdatedAt = &t
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update applies a sparse patch to header and detail in one transaction. A
// supplied Points value replaces the stored total as-is.
func (r *PlayerRepo) Update(ctx context.Context, id uint64, patch PlayerPatch) error {
	return database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM players WHERE id=? AND deleted_at IS NULL", id).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return model.ErrPlayerNotFound
		}

		set := []string{}
		args := []any{}
		if patch.Name != nil {
			set = append(set, "name=?")
			args = append(args, strings.TrimSpace(*patch.Name))
		}
		if patch.Region != nil {
			set = append(set, "region=?")
			args = append(args, *patch.Region)
		}
		if patch.Points != nil {
			set = append(set, "points=?")
			args = append(args, *patch.Points)
		}
		if len(set) > 0 {
			set = append(set, "updated_at=NOW()")
			args = append(args, id)
			_, err := tx.ExecContext(ctx,
				"UPDATE players SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
			if err != nil {
				if isDuplicateKey(err) {
					return model.ErrDuplicatePlayerName
				}
				return err
			}
		}

		dset := []string{}
		dargs := []any{}
		if patch.Photo != nil {
			dset = append(dset, "photo=?")
			dargs = append(dargs, patch.Photo)
		}
		if patch.Gender != nil {
			dset = append(dset, "gender=?")
			dargs = append(dargs, *patch.Gender)
		}
		if patch.Nationality != nil {
			dset = append(dset, "nationality=?")
			dargs = append(dargs, *patch.Nationality)
		}
		if patch.BirthPlace != nil {
			dset = append(dset, "birth_place=?")
			dargs = append(dargs, *patch.BirthPlace)
		}
		if patch.BirthDate != nil {
			dset = append(dset, "birth_date=?")
			dargs = append(dargs, *patch.BirthDate)
		}
		if len(dset) > 0 {
			dset = append(dset, "updated_at=NOW()")
			dargs = append(dargs, id)
			_, err := tx.ExecContext(ctx,
				"UPDATE player_details SET "+strings.Join(dset, ", ")+" WHERE player_id=?", dargs...)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete tombstones the player header only. Match history rows stay
// live; see the ranking service note on history retention.
func (r *PlayerRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE players SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}
