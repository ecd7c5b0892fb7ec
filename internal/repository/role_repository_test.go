package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/arenahub/arena-backend/internal/model"
)

func TestRoleAssign(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRoleRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_roles (user_id, role_id) VALUES (?,?)")).
		WithArgs(uint64(7), uint64(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Assign(context.Background(), 7, 2); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
}

func TestRoleAssignTwice(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRoleRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_roles")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '7-2' for key 'user_roles.uq_user_role'"))

	err := repo.Assign(context.Background(), 7, 2)
	if !errors.Is(err, model.ErrRoleAlreadyAssigned) {
		t.Fatalf("want ErrRoleAlreadyAssigned, got %v", err)
	}
}

func TestRoleIDsForUser(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRoleRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN user_roles ur ON ur.role_id = r.id")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	ids, err := repo.IDsForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("IDsForUser error: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestRoleIDsForUserNone(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRoleRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN user_roles ur ON ur.role_id = r.id")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ids, err := repo.IDsForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("IDsForUser error: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Fatalf("want empty slice, got %v", ids)
	}
}

func TestRoleCapabilitiesForRoleIDs(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRoleRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT name FROM roles WHERE deleted_at IS NULL AND id IN (?,?)")).
		WithArgs(uint64(1), uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow(model.RoleNameAdmin).
			AddRow(model.RoleNameMember))

	caps, err := repo.CapabilitiesForRoleIDs(context.Background(), []uint64{1, 2})
	if err != nil {
		t.Fatalf("CapabilitiesForRoleIDs error: %v", err)
	}
	if len(caps) != 2 || caps[0] != model.CapabilityAdmin || caps[1] != model.CapabilityMember {
		t.Fatalf("caps = %v", caps)
	}
}

func TestRoleCapabilitiesDeletedRole(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRoleRepo(db)

	// A deleted role id resolves to nothing: the filter drops the row.
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT name FROM roles WHERE deleted_at IS NULL AND id IN (?)")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	caps, err := repo.CapabilitiesForRoleIDs(context.Background(), []uint64{9})
	if err != nil {
		t.Fatalf("CapabilitiesForRoleIDs error: %v", err)
	}
	if len(caps) != 0 {
		t.Fatalf("caps = %v, want none", caps)
	}
}

func TestRoleCapabilitiesNoIDs(t *testing.T) {
	_, db := newMock(t)
	repo := NewRoleRepo(db)

	caps, err := repo.CapabilitiesForRoleIDs(context.Background(), nil)
	if err != nil || caps != nil {
		t.Fatalf("caps = %v, err = %v", caps, err)
	}
}

func TestRoleGetByName(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRoleRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, name, created_at, updated_at, deleted_at FROM roles WHERE name=? AND deleted_at IS NULL LIMIT 1")).
		WithArgs(model.RoleNameMember).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at", "deleted_at"}).
			AddRow(2, model.RoleNameMember, now, nil, nil))

	role, err := repo.GetByName(context.Background(), model.RoleNameMember)
	if err != nil {
		t.Fatalf("GetByName error: %v", err)
	}
	if role.ID != 2 || role.Name != model.RoleNameMember {
		t.Fatalf("unexpected role: %+v", role)
	}
}

func TestRoleSoftDeleteNotFound(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRoleRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE roles SET deleted_at=NOW() WHERE id=? AND deleted_at IS NULL")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), 99)
	if !errors.Is(err, model.ErrRoleNotFound) {
		t.Fatalf("want ErrRoleNotFound, got %v", err)
	}
}
