package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arenahub/arena-backend/internal/database"
	"github.com/arenahub/arena-backend/internal/model"
)

// NewsRepo persists news articles and their ordered content sections.
type NewsRepo struct{ DB *sql.DB }

func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{DB: db} }

// NewsPatch carries a sparse header update. Details, when non-nil, replace
// the article's section set wholesale.
type NewsPatch struct {
	Title    *string
	SubTitle *string
	Sequence *int
	Status   *bool
	Details  []model.NewsDetail
}

// Create inserts the header and its sections in one transaction.
func (r *NewsRepo) Create(ctx context.Context, a *model.NewsArticle, details []model.NewsDetail) (uint64, error) {
	var id uint64
	err := database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO news_articles (title, sub_title, author_id, sequence, status) VALUES (?,?,?,?,?)",
			a.Title, a.SubTitle, a.AuthorID, a.Sequence, a.Status)
		if err != nil {
			return err
		}
		hdrID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		id = uint64(hdrID)
		return insertNewsDetails(ctx, tx, id, details)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func insertNewsDetails(ctx context.Context, tx *sql.Tx, newsID uint64, details []model.NewsDetail) error {
	for _, d := range details {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO news_details (news_id, content, url) VALUES (?,?,?)",
			newsID, d.Content, d.URL); err != nil {
			return err
		}
	}
	return nil
}

// GetByID loads a live article with its live sections.
func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (model.NewsArticle, []model.NewsDetail, error) {
	var (
		a         model.NewsArticle
		updatedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, title, sub_title, author_id, sequence, status, created_at, updated_at FROM news_articles WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id).Scan(&a.ID, &a.Title, &a.SubTitle, &a.AuthorID, &a.Sequence, &a.Status, &a.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewsArticle{}, nil, model.ErrNewsNotFound
	}
	if err != nil {
		return model.NewsArticle{}, nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		a.UpdatedAt = &t
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, news_id, content, url, created_at FROM news_details WHERE news_id=? AND deleted_at IS NULL ORDER BY id",
		id)
	if err != nil {
		return model.NewsArticle{}, nil, err
	}
	defer rows.Close()

	var details []model.NewsDetail
	for rows.Next() {
		var d model.NewsDetail
		if err := rows.Scan(&d.ID, &d.NewsID, &d.Content, &d.URL, &d.CreatedAt); err != nil {
			return model.NewsArticle{}, nil, err
		}
		details = append(details, d)
	}
	return a, details, rows.Err()
}

// List returns live articles ordered by sequence. Inactive articles are
// skipped unless includeInactive is set.
func (r *NewsRepo) List(ctx context.Context, includeInactive bool) ([]model.NewsArticle, error) {
	query := "SELECT id, title, sub_title, author_id, sequence, status, created_at, updated_at FROM news_articles WHERE deleted_at IS NULL"
	if !includeInactive {
		query += " AND status=1"
	}
	query += " ORDER BY sequence, id"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.NewsArticle
	for rows.Next() {
		var (
			a         model.NewsArticle
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.SubTitle, &a.AuthorID, &a.Sequence, &a.Status,
			&a.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			a.UpdatedAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update applies a sparse header patch and, when sections are supplied,
// replaces the section set, all in one transaction.
func (r *NewsRepo) Update(ctx context.Context, id uint64, patch NewsPatch) error {
	return database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM news_articles WHERE id=? AND deleted_at IS NULL", id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return model.ErrNewsNotFound
		}

		set := []string{}
		args := []any{}
		if patch.Title != nil {
			set = append(set, "title=?")
			args = append(args, *patch.Title)
		}
		if patch.SubTitle != nil {
			set = append(set, "sub_title=?")
			args = append(args, *patch.SubTitle)
		}
		if patch.Sequence != nil {
			set = append(set, "sequence=?")
			args = append(args, *patch.Sequence)
		}
		if patch.Status != nil {
			set = append(set, "status=?")
			args = append(args, *patch.Status)
		}
		if len(set) > 0 {
			set = append(set, "updated_at=NOW()")
			args = append(args, id)
			if _, err := tx.ExecContext(ctx,
				"UPDATE news_articles SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
				return err
			}
		}

		if patch.Details != nil {
			if _, err := tx.ExecContext(ctx,
				"UPDATE news_details SET deleted_at=NOW() WHERE news_id=? AND deleted_at IS NULL", id); err != nil {
				return err
			}
			if err := insertNewsDetails(ctx, tx, id, patch.Details); err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete tombstones an article and its live sections together.
func (r *NewsRepo) SoftDelete(ctx context.Context, id uint64) error {
	return database.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE news_articles SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrNewsNotFound
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE news_details SET deleted_at=NOW() WHERE news_id=? AND deleted_at IS NULL", id)
		return err
	})
}
