package domain

import "time"

// Token describes an issued access token.
type Token struct {
	UserID    int64
	TenantID  int64
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
