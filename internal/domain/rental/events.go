package rental

import (
	"context"
	"time"

	"github.com/xiebiao/dvdrental/internal/domain/money"
)

// Event routing keys.
const (
	EventCreated   = "rental.created"
	EventReturned  = "rental.returned"
	EventCancelled = "rental.cancelled"
)

// Event is emitted after a lifecycle change has committed.
type Event struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	RentalID    int64         `json:"rental_id"`
	InventoryID int64         `json:"inventory_id,omitempty"`
	CustomerID  int64         `json:"customer_id,omitempty"`
	StaffID     int64         `json:"staff_id,omitempty"`
	Amount      *money.Amount `json:"amount,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// EventPublisher delivers lifecycle events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
