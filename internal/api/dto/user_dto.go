package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
)

// UserRegisterRequest payload.
type UserRegisterRequest struct {
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserLoginRequest payload.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse describes token output.
type AuthResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public shape of a user. The password hash never leaves
// the service.
type UserResponse struct {
	ID        int64       `json:"id"`
	TenantID  int64       `json:"tenant_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// SeedUsersRequest payload.
type SeedUsersRequest struct {
	TenantID int64 `json:"tenant_id"`
}

// CreateTenantRequest payload.
type CreateTenantRequest struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// TenantResponse represents a tenant.
type TenantResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProviderRequest payload.
type CreateProviderRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Contact    string `json:"contact"`
}

// ProviderResponse represents a provider directory entry.
type ProviderResponse struct {
	ID         int64     `json:"id"`
	TenantID   int64     `json:"tenant_id"`
	Name       string    `json:"name"`
	Department string    `json:"department,omitempty"`
	Contact    string    `json:"contact,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserResponse maps a user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// NewUserList maps users.
func NewUserList(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return items
}

// NewTenantResponse maps a tenant.
func NewTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{ID: t.ID, Name: t.Name, Domain: t.Domain, CreatedAt: t.CreatedAt}
}

// NewProviderResponse maps a provider.
func NewProviderResponse(p *domain.Provider) ProviderResponse {
	return ProviderResponse{
		ID:         p.ID,
		TenantID:   p.TenantID,
		Name:       p.Name,
		Department: p.Department,
		Contact:    p.Contact,
		CreatedAt:  p.CreatedAt,
	}
}
