package domain

import (
	"context"
	"time"
)

// Role is fixed when the account is created.
type Role string

const (
	RoleMember     Role = "member"
	RoleStoreOwner Role = "store_owner"
	RoleAdmin      Role = "admin"
)

// ParseRole is the only way an untrusted string becomes a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleMember, RoleStoreOwner, RoleAdmin:
		return r, nil
	}
	return "", Validationf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

type User struct {
	ID            string
	Name          string
	Email         string
	Username      string
	PasswordHash  string
	Role          Role
	WalletAddress string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserPatch struct {
	Name          *string
	WalletAddress *string
}

func (p UserPatch) Empty() bool {
	return p.Name == nil && p.WalletAddress == nil
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*User, error)
	// DeleteUser removes the account unless it still owns stores or memberships.
	DeleteUser(ctx context.Context, id string) error
}
