package readstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = `
	id, receipt_number, collector_id, customer_id, submission_id,
	material_type, condition, weight_kg, price_per_kg, total_amount,
	payment_status, created_at`

type TransactionReadStore struct{}

func NewTransactionReadStore() *TransactionReadStore {
	return &TransactionReadStore{}
}

func (s *TransactionReadStore) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.TransactionView, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	view, err := scanTransactionView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("transaction not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find transaction", err)
	}

	return view, nil
}

func (s *TransactionReadStore) FindBySubmissionID(ctx context.Context, dbtx db.DBTX, submissionID uuid.UUID) (*queries.TransactionView, error) {
	row := dbtx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE submission_id = $1`, submissionID)

	view, err := scanTransactionView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("transaction not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find transaction", err)
	}

	return view, nil
}

func (s *TransactionReadStore) List(ctx context.Context, dbtx db.DBTX, filter queries.TransactionFilter) ([]*queries.TransactionView, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := make([]any, 0, 3)

	if filter.CollectorID != nil {
		args = append(args, *filter.CollectorID)
		query += ` AND collector_id = $` + strconv.Itoa(len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += ` AND customer_id = $` + strconv.Itoa(len(args))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		query += ` AND payment_status = $` + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit)

	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list transactions", err)
	}
	defer rows.Close()

	var result []*queries.TransactionView
	for rows.Next() {
		view, err := scanTransactionView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan transaction row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read transaction rows", err)
	}

	return result, nil
}

func scanTransactionView(row pgx.Row) (*queries.TransactionView, error) {
	v := &queries.TransactionView{}
	err := row.Scan(
		&v.ID, &v.ReceiptNumber, &v.CollectorID, &v.CustomerID, &v.SubmissionID,
		&v.Material, &v.Condition, &v.WeightKg, &v.PricePerKg, &v.TotalAmount,
		&v.PaymentStatus, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}
