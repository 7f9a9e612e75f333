package notify

import (
	"context"
	"time"
)

// LeadPayload is the record forwarded to the notification sink
type LeadPayload struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier defines the interface for forwarding new leads to an external
// sink. Calls are fire-and-forget from the caller's point of view.
type Notifier interface {
	// Notify forwards a lead; the context bounds the attempt
	Notify(ctx context.Context, lead LeadPayload) error

	// Name returns the name of the sink implementation
	Name() string
}
