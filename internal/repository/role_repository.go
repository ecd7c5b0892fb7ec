package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/arenahub/arena-backend/internal/model"
)

// RoleRepo persists roles and user/role assignments, and resolves role ids
// to capabilities for the authorization gate.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

const roleColumns = "id, name, created_at, updated_at, deleted_at"

// Create inserts a role with a unique name among non-deleted roles.
func (r *RoleRepo) Create(ctx context.Context, name string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx, "INSERT INTO roles (name) VALUES (?)", strings.TrimSpace(name))
	if err != nil {
		if isDuplicateKey(err) {
			return 0, model.ErrDuplicateRoleName
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// NameExists reports whether a non-deleted role holds the name, optionally
// excluding one role id (for rename checks).
func (r *RoleRepo) NameExists(ctx context.Context, name string, excludeID uint64) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM roles WHERE name=? AND deleted_at IS NULL AND id<>?",
		strings.TrimSpace(name), excludeID).Scan(&n)
	return n > 0, err
}

// GetByID fetches a non-deleted role.
func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (model.Role, error) {
	return r.getOne(ctx, "SELECT "+roleColumns+" FROM roles WHERE id=? AND deleted_at IS NULL LIMIT 1", id)
}

// GetByName fetches a non-deleted role by its unique name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (model.Role, error) {
	return r.getOne(ctx, "SELECT "+roleColumns+" FROM roles WHERE name=? AND deleted_at IS NULL LIMIT 1",
		strings.TrimSpace(name))
}

// List returns all non-deleted roles ordered by id.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+roleColumns+" FROM roles WHERE deleted_at IS NULL ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// Rename updates a role's name. Zero rows affected means the role does not
// exist or is soft-deleted.
func (r *RoleRepo) Rename(ctx context.Context, id uint64, name string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE roles SET name=?, updated_at=NOW() WHERE id=? AND deleted_at IS NULL",
		strings.TrimSpace(name), id)
	if err != nil {
		if isDuplicateKey(err) {
			return model.ErrDuplicateRoleName
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrRoleNotFound
	}
	return nil
}

// SoftDelete tombstones a role.
func (r *RoleRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE roles SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrRoleNotFound
	}
	return nil
}

// Assign grants a role to a user. The (user_id, role_id) unique key turns a
// double grant into ErrRoleAlreadyAssigned.
func (r *RoleRepo) Assign(ctx context.Context, userID, roleID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_roles (user_id, role_id) VALUES (?,?)", userID, roleID)
	if isDuplicateKey(err) {
		return model.ErrRoleAlreadyAssigned
	}
	return err
}

// Remove revokes a role from a user. Removing an absent assignment is a
// no-op.
func (r *RoleRepo) Remove(ctx context.Context, userID, roleID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_roles WHERE user_id=? AND role_id=?", userID, roleID)
	return err
}

// IDsForUser returns the ids of all non-deleted roles held by a user. A
// user with no assignments gets an empty slice, not an error.
func (r *RoleRepo) IDsForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = ? AND r.deleted_at IS NULL
		 ORDER BY r.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0, 2)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UsersForRole returns the ids of users holding a role.
func (r *RoleRepo) UsersForRole(ctx context.Context, roleID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT user_id FROM user_roles WHERE role_id=? ORDER BY user_id", roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CapabilitiesForRoleIDs maps role ids to capabilities by reading the live
// role table, so authorization follows renames without re-issuing tokens.
// Ids of deleted or unknown roles resolve to nothing.
func (r *RoleRepo) CapabilitiesForRoleIDs(ctx context.Context, ids []uint64) ([]model.Capability, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT name FROM roles WHERE deleted_at IS NULL AND id IN (?" +
		strings.Repeat(",?", len(ids)-1) + ")"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var caps []model.Capability
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		caps = append(caps, model.CapabilityForRole(name))
	}
	return caps, rows.Err()
}

type roleScanner interface {
	Scan(dest ...any) error
}

func scanRole(s roleScanner) (model.Role, error) {
	var (
		role      model.Role
		updatedAt sql.NullTime
		deletedAt sql.NullTime
	)
	if err := s.Scan(&role.ID, &role.Name, &role.CreatedAt, &updatedAt, &deletedAt); err != nil {
		return model.Role{}, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		role.UpdatedAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		role.DeletedAt = &t
	}
	return role, nil
}

func (r *RoleRepo) getOne(ctx context.Context, query string, arg any) (model.Role, error) {
	role, err := scanRole(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Role{}, model.ErrRoleNotFound
	}
	if err != nil {
		return model.Role{}, err
	}
	return role, nil
}
