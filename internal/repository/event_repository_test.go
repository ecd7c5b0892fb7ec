package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/arenahub/arena-backend/internal/model"
)

func TestEventCreate(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	regDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO events (title, event_date, owner_id) VALUES (?,?,?)")).
		WithArgs("Autumn Open", date, uint64(7)).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO event_details (event_id, location, location_url, registration_date, timeline, category, level, registration_fee) VALUES (?,?,?,?,?,?,?,?)")).
		WithArgs(uint64(4), "City Arena", "https://maps.example.com/arena", regDate,
			"10:00 doors, 11:00 start", "open", "amateur", "15 EUR").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO event_footers (event_id, notes, url) VALUES (?,?,?)")).
		WithArgs(uint64(4), "Bring your own gear", "https://example.com/autumn-open").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	id, err := repo.Create(context.Background(),
		&model.Event{Title: "Autumn Open", Date: &date, OwnerID: 7},
		&model.EventDetail{
			Location:         "City Arena",
			LocationURL:      "https://maps.example.com/arena",
			RegistrationDate: &regDate,
			Timeline:         "10:00 doors, 11:00 start",
			Category:         "open",
			Level:            "amateur",
			RegistrationFee:  "15 EUR",
		},
		&model.EventFooter{Notes: "Bring your own gear", URL: "https://example.com/autumn-open"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if id != 4 {
		t.Fatalf("want id 4, got %d", id)
	}
}

func TestEventCreateDetailErrorRollsBack(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs("Autumn Open", nil, uint64(7)).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_details")).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(),
		&model.Event{Title: "Autumn Open", OwnerID: 7},
		&model.EventDetail{}, &model.EventFooter{})
	if err == nil {
		t.Fatal("want error, got nil")
	}
}

func TestEventUpdateHeaderOnly(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM events WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE events SET title=?, updated_at=NOW() WHERE id=?")).
		WithArgs("Winter Open", uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), 4, EventPatch{Title: strp("Winter Open")})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestEventUpdateDetailSubset(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	regDate := time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC)

	// Untouched columns stay out of the statement; registration_date
	// always trails the string columns.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM events WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE event_details SET location=?, category=?, registration_date=?, updated_at=NOW() WHERE event_id=?")).
		WithArgs("North Hall", "junior", regDate, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), 4, EventPatch{
		Location:         strp("North Hall"),
		Category:         strp("junior"),
		RegistrationDate: timep(regDate),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestEventUpdateFooterOnly(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM events WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE event_footers SET notes=?, updated_at=NOW() WHERE event_id=?")).
		WithArgs("Venue changed", uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), 4, EventPatch{Notes: strp("Venue changed")})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestEventUpdateAcrossAllRows(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM events WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE events SET title=?, updated_at=NOW() WHERE id=?")).
		WithArgs("Winter Open", uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE event_details SET level=?, updated_at=NOW() WHERE event_id=?")).
		WithArgs("pro", uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE event_footers SET url=?, updated_at=NOW() WHERE event_id=?")).
		WithArgs("https://example.com/winter-open", uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), 4, EventPatch{
		Title: strp("Winter Open"),
		Level: strp("pro"),
		URL:   strp("https://example.com/winter-open"),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
}

func TestEventUpdateNotFound(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM events WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), 99, EventPatch{Title: strp("ghost")})
	if !errors.Is(err, model.ErrEventNotFound) {
		t.Fatalf("want ErrEventNotFound, got %v", err)
	}
}

func TestEventSoftDelete(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE events SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDelete(context.Background(), 4); err != nil {
		t.Fatalf("SoftDelete error: %v", err)
	}
}

func TestEventSoftDeleteNotFound(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET deleted_at=NOW()")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), 99)
	if !errors.Is(err, model.ErrEventNotFound) {
		t.Fatalf("want ErrEventNotFound, got %v", err)
	}
}

func TestEventListSearch(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	now := time.Now().UTC()
	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT COUNT(*) FROM events WHERE deleted_at IS NULL AND LOWER(title) LIKE LOWER(?)")).
		WithArgs("%cup%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	// Dated events come first, newest date first; undated trail.
	mock.ExpectQuery(regexp.QuoteMeta(
		"ORDER BY (event_date IS NULL) ASC, event_date DESC, id DESC LIMIT ? OFFSET ?")).
		WithArgs("%cup%", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "event_date", "owner_id", "created_at", "updated_at"}).
			AddRow(5, "City Cup", date, 7, now, nil).
			AddRow(3, "Charity Cup", nil, 7, now, now))

	events, total, err := repo.List(context.Background(), 2, 10, "  cup ")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if total != 12 {
		t.Fatalf("want total 12, got %d", total)
	}
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %d", len(events))
	}
	if events[0].Date == nil || !events[0].Date.Equal(date) {
		t.Fatalf("unexpected first event date: %v", events[0].Date)
	}
	if events[1].Date != nil {
		t.Fatalf("want nil date for undated event, got %v", events[1].Date)
	}
}

func TestEventGetByID(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	now := time.Now().UTC()
	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	regDate := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM events WHERE id=? AND deleted_at IS NULL LIMIT 1")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "event_date", "owner_id", "created_at", "updated_at"}).
			AddRow(5, "City Cup", date, 7, now, nil))
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM event_details WHERE event_id=? LIMIT 1")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "location", "location_url", "registration_date", "timeline", "category", "level", "registration_fee"}).
			AddRow(9, 5, "City Arena", "", regDate, "", "open", "amateur", "free"))
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM event_footers WHERE event_id=? LIMIT 1")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "notes", "url"}).
			AddRow(9, 5, "", "https://example.com/city-cup"))

	e, d, f, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if e.Title != "City Cup" || d.Location != "City Arena" || f.URL != "https://example.com/city-cup" {
		t.Fatalf("unexpected rows: %+v / %+v / %+v", e, d, f)
	}
	if d.RegistrationDate == nil || !d.RegistrationDate.Equal(regDate) {
		t.Fatalf("registration date lost: %v", d.RegistrationDate)
	}
}

func TestEventGetByIDNotFound(t *testing.T) {
	mock, db := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM events WHERE id=? AND deleted_at IS NULL LIMIT 1")).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	_, _, _, err := repo.GetByID(context.Background(), 99)
	if !errors.Is(err, model.ErrEventNotFound) {
		t.Fatalf("want ErrEventNotFound, got %v", err)
	}
}
