package submission

import (
	"errors"
	"strings"
	"time"

	"kardus/internal/domain/pricing"

	"github.com/google/uuid"
)

// MinWeightKg is the platform-wide floor enforced at creation, not by the
// pricing engine.
const MinWeightKg = 10.0

var (
	ErrWeightBelowMinimum = errors.New("weight below platform minimum")
	ErrEmptyMaterial      = errors.New("material type required")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPickupNotFuture    = errors.New("pickup time must be in the future")
	ErrCollectorRequired  = errors.New("collector required to schedule")
)

// Submission is the root lifecycle entity: a customer's offer of a
// quantity of cardboard. It is never physically deleted; cancellation is
// a terminal status.
type Submission struct {
	id             uuid.UUID
	customerID     uuid.UUID
	material       string
	condition      pricing.Condition
	weightKg       float64
	estimatedPrice int64
	status         Status
	collectorID    *uuid.UUID
	pickupAt       *time.Time
	completedAt    *time.Time
	cancelReason   string
	notes          string
	version        int32
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSubmission validates the offer and computes the initial estimate
// from the supplied price table.
func NewSubmission(
	customerID uuid.UUID,
	material string,
	condition pricing.Condition,
	weightKg float64,
	notes string,
	table *pricing.Table,
) (*Submission, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return nil, ErrEmptyMaterial
	}
	if weightKg < MinWeightKg {
		return nil, ErrWeightBelowMinimum
	}

	estimate, err := pricing.Estimate(material, condition, weightKg, table)
	if err != nil {
		return nil, err
	}

	return &Submission{
		id:             uuid.New(),
		customerID:     customerID,
		material:       material,
		condition:      condition,
		weightKg:       weightKg,
		estimatedPrice: estimate,
		status:         StatusPending,
		notes:          notes,
		version:        1,
	}, nil
}

func Reconstruct(
	id, customerID uuid.UUID,
	material string,
	condition pricing.Condition,
	weightKg float64,
	estimatedPrice int64,
	status Status,
	collectorID *uuid.UUID,
	pickupAt, completedAt *time.Time,
	cancelReason, notes string,
	version int32,
	createdAt, updatedAt time.Time,
) *Submission {
	return &Submission{
		id:             id,
		customerID:     customerID,
		material:       material,
		condition:      condition,
		weightKg:       weightKg,
		estimatedPrice: estimatedPrice,
		status:         status,
		collectorID:    collectorID,
		pickupAt:       pickupAt,
		completedAt:    completedAt,
		cancelReason:   cancelReason,
		notes:          notes,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Schedule assigns a collector and pickup time. Only a pending submission
// may be scheduled, and the pickup must lie in the future at call time.
func (s *Submission) Schedule(collectorID uuid.UUID, pickupAt time.Time, now time.Time) error {
	if s.status != StatusPending {
		return ErrInvalidTransition
	}
	if collectorID == uuid.Nil {
		return ErrCollectorRequired
	}
	if !pickupAt.After(now) {
		return ErrPickupNotFuture
	}

	s.status = StatusScheduled
	s.collectorID = &collectorID
	s.pickupAt = &pickupAt
	return nil
}

// Complete marks a scheduled pickup as done. Settlement happens outside
// the entity, in the same logical operation.
func (s *Submission) Complete(now time.Time) error {
	if s.status != StatusScheduled {
		return ErrInvalidTransition
	}

	s.status = StatusCompleted
	s.completedAt = &now
	return nil
}

// Cancel is permitted from pending or scheduled. It never triggers
// settlement.
func (s *Submission) Cancel(reason string) error {
	if s.status.IsTerminal() {
		return ErrInvalidTransition
	}

	s.status = StatusCancelled
	s.collectorID = nil
	s.pickupAt = nil
	s.cancelReason = reason
	return nil
}

// Reestimate recomputes the estimated price after a pending-state edit.
// The estimate is never allowed to go stale while the offer is open.
func (s *Submission) Reestimate(material string, condition pricing.Condition, weightKg float64, table *pricing.Table) error {
	if s.status != StatusPending {
		return ErrInvalidTransition
	}
	material = strings.TrimSpace(material)
	if material == "" {
		return ErrEmptyMaterial
	}
	if weightKg < MinWeightKg {
		return ErrWeightBelowMinimum
	}

	estimate, err := pricing.Estimate(material, condition, weightKg, table)
	if err != nil {
		return err
	}

	s.material = material
	s.condition = condition
	s.weightKg = weightKg
	s.estimatedPrice = estimate
	return nil
}

// SetNotes replaces the free-form notes; allowed while the offer is open.
func (s *Submission) SetNotes(notes string) error {
	if s.status != StatusPending {
		return ErrInvalidTransition
	}
	s.notes = notes
	return nil
}

// CollectorInvariantHolds reports the assigned-collector rule: non-nil
// iff status is scheduled or completed.
func (s *Submission) CollectorInvariantHolds() bool {
	assigned := s.collectorID != nil
	return assigned == (s.status == StatusScheduled || s.status == StatusCompleted)
}

func (s *Submission) ID() uuid.UUID                { return s.id }
func (s *Submission) CustomerID() uuid.UUID        { return s.customerID }
func (s *Submission) Material() string             { return s.material }
func (s *Submission) Condition() pricing.Condition { return s.condition }
func (s *Submission) WeightKg() float64            { return s.weightKg }
func (s *Submission) EstimatedPrice() int64        { return s.estimatedPrice }
func (s *Submission) Status() Status               { return s.status }
func (s *Submission) CollectorID() *uuid.UUID      { return s.collectorID }
func (s *Submission) PickupAt() *time.Time         { return s.pickupAt }
func (s *Submission) CompletedAt() *time.Time      { return s.completedAt }
func (s *Submission) CancelReason() string         { return s.cancelReason }
func (s *Submission) Notes() string                { return s.notes }
func (s *Submission) Version() int32               { return s.version }
func (s *Submission) CreatedAt() time.Time         { return s.createdAt }
func (s *Submission) UpdatedAt() time.Time         { return s.updatedAt }
