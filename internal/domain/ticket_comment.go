package domain

import "time"

// TicketComment is an append-only note on a ticket thread.
type TicketComment struct {
	ID           int64
	TicketID     int64
	AuthorUserID *int64
	Content      string
	CreatedAt    time.Time
}
