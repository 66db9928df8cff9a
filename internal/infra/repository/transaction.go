package repository

import (
	"context"
	"time"

	"kardus/internal/domain/pricing"
	"kardus/internal/domain/transaction"
	"kardus/internal/infra"
	"kardus/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TransactionRepository struct{}

func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{}
}

// Create inserts the settlement row. ON CONFLICT on the submission key
// makes a retried settlement a no-op; the caller re-reads the winner.
func (r *TransactionRepository) Create(ctx context.Context, dbtx db.DBTX, trx *transaction.Transaction) (bool, error) {
	tag, err := dbtx.Exec(ctx, `
		INSERT INTO transactions
			(id, receipt_number, collector_id, customer_id, submission_id,
			 material_type, condition, weight_kg, price_per_kg, total_amount, payment_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (submission_id) DO NOTHING
	`,
		trx.ID(), trx.ReceiptNumber(), trx.CollectorID(), trx.CustomerID(), trx.SubmissionID(),
		trx.Material(), trx.Condition().String(), trx.WeightKg(), trx.PricePerKg(),
		trx.TotalAmount(), trx.PaymentStatus().String(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to create transaction", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*transaction.Transaction, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, receipt_number, collector_id, customer_id, submission_id,
		       material_type, condition, weight_kg, price_per_kg, total_amount,
		       payment_status, created_at
		FROM transactions
		WHERE id = $1
	`, id)

	trx, err := scanTransaction(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find transaction", err)
	}

	return trx, nil
}

func (r *TransactionRepository) FindBySubmissionID(ctx context.Context, dbtx db.DBTX, submissionID uuid.UUID) (*transaction.Transaction, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, receipt_number, collector_id, customer_id, submission_id,
		       material_type, condition, weight_kg, price_per_kg, total_amount,
		       payment_status, created_at
		FROM transactions
		WHERE submission_id = $1
	`, submissionID)

	trx, err := scanTransaction(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find transaction by submission", err)
	}

	return trx, nil
}

func (r *TransactionRepository) UpdatePaymentStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status transaction.PaymentStatus) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE transactions
		SET payment_status = $2
		WHERE id = $1
	`, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "transaction not found")
	}

	return nil
}

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var (
		id                     uuid.UUID
		receiptNumber          string
		collectorID            uuid.UUID
		customerID             uuid.UUID
		submissionID           *uuid.UUID
		material, conditionStr string
		weightKg               float64
		pricePerKg             int64
		totalAmount            int64
		paymentStatusStr       string
		createdAt              time.Time
	)

	err := row.Scan(
		&id, &receiptNumber, &collectorID, &customerID, &submissionID,
		&material, &conditionStr, &weightKg, &pricePerKg, &totalAmount,
		&paymentStatusStr, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	condition, err := pricing.ParseCondition(conditionStr)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := transaction.ParsePaymentStatus(paymentStatusStr)
	if err != nil {
		return nil, err
	}

	return transaction.Reconstruct(
		id, receiptNumber, collectorID, customerID, submissionID,
		material, condition, weightKg, pricePerKg, totalAmount,
		paymentStatus, createdAt,
	), nil
}
