package domain

import "time"

// Provider is a tenant-scoped directory entry for a service department.
// It is informational and not linked to users with the provider role.
type Provider struct {
	ID         int64
	TenantID   int64
	Name       string
	Department string
	Contact    string
	CreatedAt  time.Time
}
