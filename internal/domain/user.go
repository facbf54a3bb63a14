package domain

import "time"

// User is an authenticated member of a tenant.
type User struct {
	ID           int64
	TenantID     int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
func (u *User) IsProvider() bool { return u != nil && u.Role == RoleProvider }
func (u *User) IsCustomer() bool { return u != nil && u.Role == RoleCustomer }
