package shared

import (
	"context"
	"time"

	"kardus/internal/domain/inventory"
	"kardus/internal/domain/submission"
	"kardus/internal/domain/transaction"
	"kardus/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Submissions() SubmissionRepository
	Prices() PriceRepository
	Transactions() TransactionRepository
	Inventory() InventoryRepository
	Notifications() NotificationRepository
	Idempotency() IdempotencyRepository
	DB() db.DBTX
}

type SubmissionRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, sub *submission.Submission) (uuid.UUID, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*submission.Submission, error)
	// UpdateCAS persists the mutated entity guarded by the version read
	// before mutation; false means the compare-and-swap lost.
	UpdateCAS(ctx context.Context, dbtx db.DBTX, sub *submission.Submission, expectedVersion int32) (bool, error)
}

type PriceRepository interface {
	// DeactivateActive retires the current active entry and returns its
	// price, or nil when the pair had no active entry.
	DeactivateActive(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, material, condition string) (*int64, error)
	DeactivateAll(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) (map[[2]string]int64, error)
	InsertActive(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID, material, condition string, pricePerKg int64) error
	InsertHistory(ctx context.Context, dbtx db.DBTX, change PriceChange) error
}

type TransactionRepository interface {
	// Create inserts and reports whether the row was actually written;
	// false means another settlement already holds the submission key.
	Create(ctx context.Context, dbtx db.DBTX, trx *transaction.Transaction) (bool, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*transaction.Transaction, error)
	FindBySubmissionID(ctx context.Context, dbtx db.DBTX, submissionID uuid.UUID) (*transaction.Transaction, error)
	UpdatePaymentStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status transaction.PaymentStatus) error
}

type InventoryRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, item *inventory.Item) error
	// CreateFromSettlement is idempotent on the source transaction id.
	CreateFromSettlement(ctx context.Context, dbtx db.DBTX, item *inventory.Item) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*inventory.Item, error)
	Update(ctx context.Context, dbtx db.DBTX, item *inventory.Item) error
}

type NotificationRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, n *Notification) error
	// CreateOncePerRelated suppresses duplicates sharing (category,
	// related id), which keeps retried settlements at one notification.
	CreateOncePerRelated(ctx context.Context, dbtx db.DBTX, n *Notification) error
	MarkRead(ctx context.Context, dbtx db.DBTX, id, recipientID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, dbtx db.DBTX, recipientID uuid.UUID) (int64, error)
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, dbtx db.DBTX, key, actorID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) error
	Get(ctx context.Context, dbtx db.DBTX, key, actorID uuid.UUID) (*IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, actorID, resultID uuid.UUID) error
	DeleteExpired(ctx context.Context, dbtx db.DBTX, now time.Time) (int64, error)
}
