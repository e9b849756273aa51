package domain

import (
	"strings"
	"time"
)

// Role enumerates marketplace account roles.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleBuyer, RoleSeller, RoleAdmin}

// ParseRole validates a raw role value.
func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return role, true
	}
	return "", false
}

// User is a marketplace account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	CreatedAt    time.Time
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Actor returns the identity used to authorize operations on behalf of u.
func (u *User) Actor() *Actor {
	return &Actor{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// RoleCount is a per-role tally.
type RoleCount struct {
	Role  Role
	Count int64
}

// UserStats summarizes registered accounts.
type UserStats struct {
	TotalUsers  int64
	UsersByRole []RoleCount
	RecentUsers int64
}
