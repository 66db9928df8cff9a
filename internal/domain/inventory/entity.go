// Package inventory models a collector's held stock. Items derived from a
// settlement carry the originating transaction id as their source key so
// a retried settlement can never create a duplicate row.
package inventory

import (
	"errors"
	"time"

	"kardus/internal/domain/pricing"
	"kardus/internal/domain/transaction"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid inventory status")
	ErrNonPositiveWeight = errors.New("weight must be positive")
)

type Status string

const (
	StatusAvailable  Status = "available"
	StatusSold       Status = "sold"
	StatusDamaged    Status = "damaged"
	StatusProcessing Status = "processing"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusSold, StatusDamaged, StatusProcessing:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s Status) String() string {
	return string(s)
}

type Item struct {
	id                  uuid.UUID
	collectorID         uuid.UUID
	material            string
	condition           pricing.Condition
	weightKg            float64
	acquiredOn          time.Time
	sourceTransactionID *uuid.UUID
	sourceNote          string
	status              Status
	notes               string
	createdAt           time.Time
	updatedAt           time.Time
}

// NewFromTransaction derives the settlement-side inventory item.
func NewFromTransaction(trx *transaction.Transaction, acquiredOn time.Time) *Item {
	trxID := trx.ID()
	return &Item{
		id:                  uuid.New(),
		collectorID:         trx.CollectorID(),
		material:            trx.Material(),
		condition:           trx.Condition(),
		weightKg:            trx.WeightKg(),
		acquiredOn:          acquiredOn,
		sourceTransactionID: &trxID,
		sourceNote:          "settlement " + trx.ReceiptNumber(),
		status:              StatusAvailable,
	}
}

// NewManual records stock acquired outside the platform.
func NewManual(
	collectorID uuid.UUID,
	material string,
	condition pricing.Condition,
	weightKg float64,
	acquiredOn time.Time,
	sourceNote, notes string,
) (*Item, error) {
	if weightKg <= 0 {
		return nil, ErrNonPositiveWeight
	}

	return &Item{
		id:          uuid.New(),
		collectorID: collectorID,
		material:    material,
		condition:   condition,
		weightKg:    weightKg,
		acquiredOn:  acquiredOn,
		sourceNote:  sourceNote,
		status:      StatusAvailable,
		notes:       notes,
	}, nil
}

func Reconstruct(
	id, collectorID uuid.UUID,
	material string,
	condition pricing.Condition,
	weightKg float64,
	acquiredOn time.Time,
	sourceTransactionID *uuid.UUID,
	sourceNote string,
	status Status,
	notes string,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:                  id,
		collectorID:         collectorID,
		material:            material,
		condition:           condition,
		weightKg:            weightKg,
		acquiredOn:          acquiredOn,
		sourceTransactionID: sourceTransactionID,
		sourceNote:          sourceNote,
		status:              status,
		notes:               notes,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

func (i *Item) UpdateStatus(status Status) error {
	if _, err := ParseStatus(status.String()); err != nil {
		return err
	}
	i.status = status
	return nil
}

func (i *Item) SetNotes(notes string) {
	i.notes = notes
}

func (i *Item) ID() uuid.UUID                   { return i.id }
func (i *Item) CollectorID() uuid.UUID          { return i.collectorID }
func (i *Item) Material() string                { return i.material }
func (i *Item) Condition() pricing.Condition    { return i.condition }
func (i *Item) WeightKg() float64               { return i.weightKg }
func (i *Item) AcquiredOn() time.Time           { return i.acquiredOn }
func (i *Item) SourceTransactionID() *uuid.UUID { return i.sourceTransactionID }
func (i *Item) SourceNote() string              { return i.sourceNote }
func (i *Item) Status() Status                  { return i.status }
func (i *Item) Notes() string                   { return i.notes }
func (i *Item) CreatedAt() time.Time            { return i.createdAt }
func (i *Item) UpdatedAt() time.Time            { return i.updatedAt }
