package commands

import (
	"context"

	"kardus/internal/domain/pricing"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/queries"

	"github.com/google/uuid"
)

// Read ports used by commands for read-after-write responses and for
// price snapshots taken inside write transactions.

type SubmissionReads interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.SubmissionView, error)
}

type PriceReads interface {
	ActiveTable(ctx context.Context, dbtx db.DBTX, collectorID uuid.UUID) (*pricing.Table, error)
}

type TransactionReads interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.TransactionView, error)
}

type InventoryReads interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.InventoryItemView, error)
}

// ReceiptIssuer hands out unique receipt numbers for settlements.
type ReceiptIssuer interface {
	Next() string
}
