package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/arenahub/arena-backend/internal/model"
	"github.com/arenahub/arena-backend/internal/repository"
)

// RoleService manages role records and user/role assignments.
type RoleService struct {
	roles *repository.RoleRepo
	users *repository.UserRepo
	log   *zap.Logger
}

func NewRoleService(roles *repository.RoleRepo, users *repository.UserRepo, logger *zap.Logger) *RoleService {
	return &RoleService{roles: roles, users: users, log: logger.Named("role")}
}

// CreateRole adds a role with a unique name.
func (s *RoleService) CreateRole(ctx context.Context, name string) (model.Role, error) {
	name = strings.TrimSpace(name)
	exists, err := s.roles.NameExists(ctx, name, 0)
	if err != nil {
		return model.Role{}, err
	}
	if exists {
		return model.Role{}, model.ErrDuplicateRoleName
	}
	id, err := s.roles.Create(ctx, name)
	if err != nil {
		return model.Role{}, err
	}
	s.log.Info("role created", zap.Uint64("role_id", id), zap.String("name", name))
	return s.roles.GetByID(ctx, id)
}

// GetRole fetches one role.
func (s *RoleService) GetRole(ctx context.Context, id uint64) (model.Role, error) {
	return s.roles.GetByID(ctx, id)
}

// ListRoles returns all live roles.
func (s *RoleService) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}

// RenameRole changes a role's name, keeping names unique.
func (s *RoleService) RenameRole(ctx context.Context, id uint64, name string) (model.Role, error) {
	name = strings.TrimSpace(name)
	exists, err := s.roles.NameExists(ctx, name, id)
	if err != nil {
		return model.Role{}, err
	}
	if exists {
		return model.Role{}, model.ErrDuplicateRoleName
	}
	if err := s.roles.Rename(ctx, id, name); err != nil {
		return model.Role{}, err
	}
	return s.roles.GetByID(ctx, id)
}

// DeleteRole soft-deletes a role. Existing assignments stay but resolve to
// no capability once the role is gone.
func (s *RoleService) DeleteRole(ctx context.Context, id uint64) error {
	if err := s.roles.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.log.Info("role deleted", zap.Uint64("role_id", id))
	return nil
}

// AssignRole grants a role to a user. Both sides must exist and be live;
// a repeated grant fails with ErrRoleAlreadyAssigned.
func (s *RoleService) AssignRole(ctx context.Context, userID, roleID uint64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return err
	}
	if err := s.roles.Assign(ctx, userID, roleID); err != nil {
		return err
	}
	s.log.Info("role assigned", zap.Uint64("user_id", userID), zap.Uint64("role_id", roleID))
	return nil
}

// RemoveRole revokes a role from a user.
func (s *RoleService) RemoveRole(ctx context.Context, userID, roleID uint64) error {
	return s.roles.Remove(ctx, userID, roleID)
}

// UserRoles lists the role ids a user currently holds. Token claims are
// built from this at issuance and rotation time.
func (s *RoleService) UserRoles(ctx context.Context, userID uint64) ([]uint64, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.roles.IDsForUser(ctx, userID)
}

// RoleUsers lists the user ids holding a role.
func (s *RoleService) RoleUsers(ctx context.Context, roleID uint64) ([]uint64, error) {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.roles.UsersForRole(ctx, roleID)
}
