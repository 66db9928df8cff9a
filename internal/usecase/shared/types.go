package shared

import (
	"time"

	"github.com/google/uuid"
)

// PriceChange is one immutable history record of a price update.
type PriceChange struct {
	CollectorID uuid.UUID
	Material    string
	Condition   string
	OldPrice    *int64
	NewPrice    int64
	ChangedAt   time.Time
}

// Notification is a message to one user about a domain event. Delivery
// (push/email/badge) is an external collaborator; this core only writes
// rows.
type Notification struct {
	ID            uuid.UUID
	RecipientID   uuid.UUID
	Title         string
	Body          string
	Category      string
	RelatedEntity string
	RelatedID     *uuid.UUID
	Read          bool
	CreatedAt     time.Time
}

// Notification categories written by this core.
const (
	NotifyCategorySettlement = "settlement"
	NotifyCategorySchedule   = "schedule"
	NotifyCategoryCancel     = "cancel"
)

type IdempotencyRecord struct {
	Key         uuid.UUID
	ActorID     uuid.UUID
	Endpoint    string
	RequestHash string
	Status      string
	ResultID    *uuid.UUID
	ExpiresAt   time.Time
}
