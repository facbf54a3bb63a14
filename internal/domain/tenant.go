package domain

import "time"

// Tenant is the isolation boundary for users, tickets and providers.
type Tenant struct {
	ID        int64
	Name      string
	Domain    string
	CreatedAt time.Time
}
