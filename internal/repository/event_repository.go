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

// EventRepo persists events as a header/detail/footer row triple.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// EventPatch carries a sparse update across the three event rows.
type EventPatch struct {
	Title            *string
	Date             *time.Time
	Location         *string
	LocationURL      *string
	RegistrationDate *time.Time
	Timeline         *string
	Category         *string
	Level            *string
	RegistrationFee  *string
	Notes            *string
	URL              *string
}

// Create inserts header, detail and footer in one transaction.
func (r *EventRepo) Create(ctx context.Context, e *model.Event, d *model.EventDetail, f *model.EventFooter) (uint64, error) {
	var id uint64
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO events (title, event_date, owner_id) VALUES (?,?,?)",
			e.Title, e.Date, e.OwnerID)
		if err != nil {
			return err
		}
		hdrID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		id = uint64(hdrID)
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO event_details (event_id, location, location_url, registration_date, timeline, category, level, registration_fee) VALUES (?,?,?,?,?,?,?,?)",
			id, d.Location, d.LocationURL, d.RegistrationDate, d.Timeline, d.Category, d.Level, d.RegistrationFee); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO event_footers (event_id, notes, url) VALUES (?,?,?)",
			id, f.Notes, f.URL)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns one page of live events ordered by event date descending,
// with a case-insensitive title filter, plus the total for the filter.
func (r *EventRepo) List(ctx context.Context, page, pageSize int, search string) ([]model.Event, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		where += " AND LOWER(title) LIKE LOWER(?)"
		args = append(args, "%"+s+"%")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM events "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT id, title, event_date, owner_id, created_at, updated_at FROM events " + where +
		" ORDER BY (event_date IS NULL) ASC, event_date DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Event, 0, pageSize)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// GetByID loads a live event with its detail and footer rows.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, model.EventDetail, model.EventFooter, error) {
	e, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT id, title, event_date, owner_id, created_at, updated_at FROM events WHERE id=? AND deleted_at IS NULL LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, model.EventDetail{}, model.EventFooter{}, model.ErrEventNotFound
	}
	if err != nil {
		return model.Event{}, model.EventDetail{}, model.EventFooter{}, err
	}

	var (
		d       model.EventDetail
		regDate sql.NullTime
	)
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, event_id, location, location_url, registration_date, timeline, category, level, registration_fee FROM event_details WHERE event_id=? LIMIT 1",
		id).Scan(&d.ID, &d.EventID, &d.Location, &d.LocationURL, &regDate, &d.Timeline, &d.Category, &d.Level, &d.RegistrationFee)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, model.EventDetail{}, model.EventFooter{}, err
	}
	if regDate.Valid {
		t := regDate.Time
		d.RegistrationDate = &t
	}

	var f model.EventFooter
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, event_id, notes, url FROM event_footers WHERE event_id=? LIMIT 1",
		id).Scan(&f.ID, &f.EventID, &f.Notes, &f.URL)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, model.EventDetail{}, model.EventFooter{}, err
	}
	return e, d, f, nil
}

// Update applies a sparse patch across header, detail and footer in one
// transaction.
func (r *EventRepo) Update(ctx context.Context, id uint64, patch EventPatch) error {
	return database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM events WHERE id=? AND deleted_at IS NULL", id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return model.ErrEventNotFound
		}

		set := []string{}
		args := []any{}
		if patch.Title != nil {
			set = append(set, "title=?")
			args = append(args, *patch.Title)
		}
		if patch.Date != nil {
			set = append(set, "event_date=?")
			args = append(args, *patch.Date)
		}
		if len(set) > 0 {
			set = append(set, "updated_at=NOW()")
			args = append(args, id)
			if _, err := tx.ExecContext(ctx,
				"UPDATE events SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
				return err
			}
		}

		dset := []string{}
		dargs := []any{}
		detailCols := []struct {
			col string
			val *string
		}{
			{"location", patch.Location},
			{"location_url", patch.LocationURL},
			{"timeline", patch.Timeline},
			{"category", patch.Category},
			{"level", patch.Level},
			{"registration_fee", patch.RegistrationFee},
		}
		for _, c := range detailCols {
			if c.val != nil {
				dset = append(dset, c.col+"=?")
				dargs = append(dargs, *c.val)
			}
		}
		if patch.RegistrationDate != nil {
			dset = append(dset, "registration_date=?")
			dargs = append(dargs, *patch.RegistrationDate)
		}
		if len(dset) > 0 {
			dset = append(dset, "updated_at=NOW()")
			dargs = append(dargs, id)
			if _, err := tx.ExecContext(ctx,
				"UPDATE event_details SET "+strings.Join(dset, ", ")+" WHERE event_id=?", dargs...); err != nil {
				return err
			}
		}

		fset := []string{}
		fargs := []any{}
		if patch.Notes != nil {
			fset = append(fset, "notes=?")
			fargs = append(fargs, *patch.Notes)
		}
		if patch.URL != nil {
			fset = append(fset, "url=?")
			fargs = append(fargs, *patch.URL)
		}
		if len(fset) > 0 {
			fset = append(fset, "updated_at=NOW()")
			fargs = append(fargs, id)
			if _, err := tx.ExecContext(ctx,
				"UPDATE event_footers SET "+strings.Join(fset, ", ")+" WHERE event_id=?", fargs...); err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete tombstones the event header. Detail and footer rows stay in
// place; reads go through the header so they become unreachable.
func (r *EventRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrEventNotFound
	}
	return nil
}

type eventScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s eventScanner) (model.Event, error) {
	var (
		e         model.Event
		eventDate sql.NullTime
		updatedAt sql.NullTime
	)
	if err := s.Scan(&e.ID, &e.Title, &eventDate, &e.OwnerID, &e.CreatedAt, &updatedAt); err != nil {
		return model.Event{}, err
	}
	if eventDate.Valid {
		t := eventDate.Time
		e.Date = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		e.UpdatedAt = &t
	}
	return e, nil
}
