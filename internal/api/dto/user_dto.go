package dto

import (
	"time"

	"github.com/spec-kit/realestate-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Phone     string      `json:"phone"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UpdateRoleRequest payload for PUT /users/:id/role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// RoleCountResponse is one row of the per-role breakdown.
type RoleCountResponse struct {
	Role  domain.Role `json:"role"`
	Count int64       `json:"count"`
}

// UserStatsResponse aggregates accounts.
type UserStatsResponse struct {
	TotalUsers  int64               `json:"totalUsers"`
	UsersByRole []RoleCountResponse `json:"usersByRole"`
	RecentUsers int64               `json:"recentUsers"`
}

// NewUserResponse maps an account, dropping the credential.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserStatsResponse maps account aggregates.
func NewUserStatsResponse(s *domain.UserStats) UserStatsResponse {
	resp := UserStatsResponse{
		TotalUsers:  s.TotalUsers,
		UsersByRole: make([]RoleCountResponse, 0, len(s.UsersByRole)),
		RecentUsers: s.RecentUsers,
	}
	for _, rc := range s.UsersByRole {
		resp.UsersByRole = append(resp.UsersByRole, RoleCountResponse{Role: rc.Role, Count: rc.Count})
	}
	return resp
}
