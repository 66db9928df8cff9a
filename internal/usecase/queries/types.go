package queries

import (
	"time"

	"github.com/google/uuid"
)

// View structs are flat read models scanned straight from SQL. They never
// travel back into the write path.

type SubmissionView struct {
	ID             uuid.UUID  `json:"id"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	Material       string     `json:"material_type"`
	Condition      string     `json:"condition"`
	WeightKg       float64    `json:"weight_kg"`
	EstimatedPrice int64      `json:"estimated_price"`
	Status         string     `json:"status"`
	CollectorID    *uuid.UUID `json:"collector_id,omitempty"`
	PickupAt       *time.Time `json:"pickup_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelReason   *string    `json:"cancel_reason,omitempty"`
	Notes          string     `json:"notes"`
	Version        int32      `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type SubmissionListItem struct {
	ID             uuid.UUID  `json:"id"`
	Material       string     `json:"material_type"`
	Condition      string     `json:"condition"`
	WeightKg       float64    `json:"weight_kg"`
	EstimatedPrice int64      `json:"estimated_price"`
	Status         string     `json:"status"`
	PickupAt       *time.Time `json:"pickup_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// SubmissionFilter narrows list queries; zero values mean "no filter".
type SubmissionFilter struct {
	CustomerID  *uuid.UUID
	CollectorID *uuid.UUID
	Status      string
	Limit       int32
}

type PriceEntryView struct {
	ID          int64     `json:"id"`
	CollectorID uuid.UUID `json:"collector_id"`
	Material    string    `json:"material_type"`
	Condition   string    `json:"condition"`
	PricePerKg  int64     `json:"price_per_kg"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PriceHistoryView struct {
	ID          int64     `json:"id"`
	CollectorID uuid.UUID `json:"collector_id"`
	Material    string    `json:"material_type"`
	Condition   string    `json:"condition"`
	OldPrice    *int64    `json:"old_price,omitempty"`
	NewPrice    int64     `json:"new_price"`
	ChangedAt   time.Time `json:"changed_at"`
}

type TransactionView struct {
	ID            uuid.UUID  `json:"id"`
	ReceiptNumber string     `json:"receipt_number"`
	CollectorID   uuid.UUID  `json:"collector_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	SubmissionID  *uuid.UUID `json:"submission_id,omitempty"`
	Material      string     `json:"material_type"`
	Condition     string     `json:"condition"`
	WeightKg      float64    `json:"weight_kg"`
	PricePerKg    int64      `json:"price_per_kg"`
	TotalAmount   int64      `json:"total_amount"`
	PaymentStatus string     `json:"payment_status"`
	CreatedAt     time.Time  `json:"created_at"`
}

type TransactionFilter struct {
	CollectorID   *uuid.UUID
	CustomerID    *uuid.UUID
	PaymentStatus string
	Limit         int32
}

type InventoryItemView struct {
	ID                  uuid.UUID  `json:"id"`
	CollectorID         uuid.UUID  `json:"collector_id"`
	Material            string     `json:"material_type"`
	Condition           string     `json:"condition"`
	WeightKg            float64    `json:"weight_kg"`
	AcquiredOn          time.Time  `json:"acquired_on"`
	SourceTransactionID *uuid.UUID `json:"source_transaction_id,omitempty"`
	SourceNote          string     `json:"source_note"`
	Status              string     `json:"status"`
	Notes               string     `json:"notes"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type InventoryFilter struct {
	CollectorID uuid.UUID
	Status      string
	Material    string
	Limit       int32
}

type NotificationView struct {
	ID            uuid.UUID  `json:"id"`
	RecipientID   uuid.UUID  `json:"recipient_id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Category      string     `json:"category"`
	RelatedEntity string     `json:"related_entity"`
	RelatedID     *uuid.UUID `json:"related_id,omitempty"`
	Read          bool       `json:"read"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CollectorDashboard is a consistent snapshot of a collector's workload,
// earnings and stock, all read inside one transaction.
type CollectorDashboard struct {
	PendingSubmissions  int64                 `json:"pending_submissions"`
	ScheduledPickups    int64                 `json:"scheduled_pickups"`
	CompletedToday      int64                 `json:"completed_today"`
	CompletedThisMonth  int64                 `json:"completed_this_month"`
	TotalSpentThisMonth int64                 `json:"total_spent_this_month"`
	UniqueCustomers     int64                 `json:"unique_customers"`
	InventoryWeightKg   float64               `json:"inventory_weight_kg"`
	InventoryByMaterial map[string]float64    `json:"inventory_by_material"`
	RecentTransactions  []*TransactionView    `json:"recent_transactions"`
	UpcomingPickups     []*SubmissionListItem `json:"upcoming_pickups"`
	UnreadNotifications int64                 `json:"unread_notifications"`
	GeneratedAt         time.Time             `json:"generated_at"`
}

// CustomerDashboard summarises a customer's submissions and earnings.
type CustomerDashboard struct {
	ActiveSubmissions   int64                 `json:"active_submissions"`
	CompletedTotal      int64                 `json:"completed_total"`
	TotalEarned         int64                 `json:"total_earned"`
	TotalWeightKg       float64               `json:"total_weight_kg"`
	RecentSubmissions   []*SubmissionListItem `json:"recent_submissions"`
	UnreadNotifications int64                 `json:"unread_notifications"`
	GeneratedAt         time.Time             `json:"generated_at"`
}
