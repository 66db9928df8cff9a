// Package transaction models the financial record of a completed
// exchange. The total amount is always re-derived from weight × price at
// construction; caller-supplied totals are never stored.
package transaction

import (
	"errors"
	"time"

	"kardus/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrPaymentStatusFinal   = errors.New("payment status is final")
	ErrNonPositiveWeight    = errors.New("weight must be positive")
	ErrNegativePrice        = errors.New("price cannot be negative")
	ErrEmptyReceiptNumber   = errors.New("receipt number required")
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentCompleted, PaymentCancelled:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}

func (p PaymentStatus) String() string {
	return string(p)
}

type Transaction struct {
	id            uuid.UUID
	receiptNumber string
	collectorID   uuid.UUID
	customerID    uuid.UUID
	submissionID  *uuid.UUID
	material      string
	condition     pricing.Condition
	weightKg      float64
	pricePerKg    int64
	totalAmount   int64
	paymentStatus PaymentStatus
	createdAt     time.Time
}

// New builds a transaction from completion-time values. submissionID is
// nil for ad hoc (off-platform) exchanges.
func New(
	receiptNumber string,
	collectorID, customerID uuid.UUID,
	submissionID *uuid.UUID,
	material string,
	condition pricing.Condition,
	weightKg float64,
	pricePerKg int64,
) (*Transaction, error) {
	if receiptNumber == "" {
		return nil, ErrEmptyReceiptNumber
	}
	if weightKg <= 0 {
		return nil, ErrNonPositiveWeight
	}
	if pricePerKg < 0 {
		return nil, ErrNegativePrice
	}

	return &Transaction{
		id:            uuid.New(),
		receiptNumber: receiptNumber,
		collectorID:   collectorID,
		customerID:    customerID,
		submissionID:  submissionID,
		material:      material,
		condition:     condition,
		weightKg:      weightKg,
		pricePerKg:    pricePerKg,
		totalAmount:   pricing.Total(pricePerKg, weightKg),
		paymentStatus: PaymentPending,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	receiptNumber string,
	collectorID, customerID uuid.UUID,
	submissionID *uuid.UUID,
	material string,
	condition pricing.Condition,
	weightKg float64,
	pricePerKg int64,
	totalAmount int64,
	paymentStatus PaymentStatus,
	createdAt time.Time,
) *Transaction {
	return &Transaction{
		id:            id,
		receiptNumber: receiptNumber,
		collectorID:   collectorID,
		customerID:    customerID,
		submissionID:  submissionID,
		material:      material,
		condition:     condition,
		weightKg:      weightKg,
		pricePerKg:    pricePerKg,
		totalAmount:   totalAmount,
		paymentStatus: paymentStatus,
		createdAt:     createdAt,
	}
}

// MarkPayment moves pending → completed|cancelled. Completed and
// cancelled are final; the total is authoritative once completed.
func (t *Transaction) MarkPayment(status PaymentStatus) error {
	if _, err := ParsePaymentStatus(status.String()); err != nil {
		return err
	}
	if t.paymentStatus != PaymentPending {
		return ErrPaymentStatusFinal
	}
	if status == PaymentPending {
		return ErrInvalidPaymentStatus
	}

	t.paymentStatus = status
	return nil
}

func (t *Transaction) ID() uuid.UUID                { return t.id }
func (t *Transaction) ReceiptNumber() string        { return t.receiptNumber }
func (t *Transaction) CollectorID() uuid.UUID       { return t.collectorID }
func (t *Transaction) CustomerID() uuid.UUID        { return t.customerID }
func (t *Transaction) SubmissionID() *uuid.UUID     { return t.submissionID }
func (t *Transaction) Material() string             { return t.material }
func (t *Transaction) Condition() pricing.Condition { return t.condition }
func (t *Transaction) WeightKg() float64            { return t.weightKg }
func (t *Transaction) PricePerKg() int64            { return t.pricePerKg }
func (t *Transaction) TotalAmount() int64           { return t.totalAmount }
func (t *Transaction) PaymentStatus() PaymentStatus { return t.paymentStatus }
func (t *Transaction) CreatedAt() time.Time         { return t.createdAt }
