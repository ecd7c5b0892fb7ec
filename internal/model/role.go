package model

import "time"

// Well-known role names seeded in the roles table. Role records are
// soft-deletable; assignments reference them by id.
const (
	RoleNameAdmin  = "Admin"
	RoleNameMember = "Member"
)

// Role mirrors the 'roles' table.
type Role struct {
	ID        uint64
	Name      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// UserRole mirrors the 'user_roles' join table. (UserID, RoleID) is unique:
// a user cannot hold the same role twice.
type UserRole struct {
	ID        uint64
	UserID    uint64
	RoleID    uint64
	CreatedAt time.Time
}

// Capability is the authorization semantics of a role, decoupled from the
// role's database id. Access tokens carry role ids; gates compare
// capabilities resolved from the role table.
type Capability string

const (
	CapabilityAdmin  Capability = "admin"
	CapabilityMember Capability = "member"
)

// CapabilityForRole maps a role name to its capability. This is the only
// place that knows which role grants what; roles with unknown names grant
// member-level access.
func CapabilityForRole(name string) Capability {
	if name == RoleNameAdmin {
		return CapabilityAdmin
	}
	return CapabilityMember
}
