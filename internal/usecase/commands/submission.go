package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kardus/internal/domain/actor"
	"kardus/internal/domain/pricing"
	"kardus/internal/domain/submission"
	"kardus/internal/infra"
	"kardus/internal/infra/db"
	"kardus/internal/pkg/clock"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/queries"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

const idempotencyTTL = 24 * time.Hour

type CreateSubmissionInput struct {
	Material  string  `json:"material_type"`
	Condition string  `json:"condition"`
	WeightKg  float64 `json:"weight_kg"`
	Notes     string  `json:"notes"`
}

type CreateSubmissionResult struct {
	Submission *queries.SubmissionView
	IsReplayed bool
}

// CompleteSubmissionInput carries the values measured at pickup. Nil
// fields fall back to the creation-time estimate and the live price
// table.
type CompleteSubmissionInput struct {
	ActualWeightKg   *float64 `json:"actual_weight_kg"`
	ActualPricePerKg *int64   `json:"actual_price_per_kg"`
}

type CompleteSubmissionResult struct {
	Submission  *queries.SubmissionView
	Transaction *queries.TransactionView
}

type SubmissionCommands interface {
	Create(ctx context.Context, act actor.Actor, in CreateSubmissionInput, idempotencyKey uuid.UUID) (*CreateSubmissionResult, error)
	Update(ctx context.Context, act actor.Actor, id uuid.UUID, in CreateSubmissionInput) (*queries.SubmissionView, error)
	Schedule(ctx context.Context, act actor.Actor, id uuid.UUID, pickupAt time.Time) (*queries.SubmissionView, error)
	Complete(ctx context.Context, act actor.Actor, id uuid.UUID, in CompleteSubmissionInput) (*CompleteSubmissionResult, error)
	Cancel(ctx context.Context, act actor.Actor, id uuid.UUID, reason string) (*queries.SubmissionView, error)
}

type submissionUseCaseImpl struct {
	uow              shared.UnitOfWork
	submissionReads  SubmissionReads
	transactionReads TransactionReads
	settlement       *SettlementService
	defaults         *pricing.Table
	clock            clock.Clock
}

func NewSubmissionUseCase(
	uow shared.UnitOfWork,
	submissionReads SubmissionReads,
	transactionReads TransactionReads,
	settlement *SettlementService,
	defaults *pricing.Table,
	clk clock.Clock,
) SubmissionCommands {
	return &submissionUseCaseImpl{
		uow:              uow,
		submissionReads:  submissionReads,
		transactionReads: transactionReads,
		settlement:       settlement,
		defaults:         defaults,
		clock:            clk,
	}
}

func (u *submissionUseCaseImpl) Create(ctx context.Context, act actor.Actor, in CreateSubmissionInput, idempotencyKey uuid.UUID) (*CreateSubmissionResult, error) {
	if !act.IsCustomer() {
		return nil, errs.ErrForbidden
	}

	condition, err := pricing.ParseCondition(in.Condition)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCondition)
	}

	requestHash := calculateRequestHash(in)

	var (
		submissionID uuid.UUID
		replayed     bool
	)
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		insertErr := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, act.ID,
			"POST /submissions", requestHash, u.clock.Now().Add(idempotencyTTL))
		if insertErr != nil {
			if !infra.IsKind(insertErr, infra.KindDuplicateKey) {
				return errs.Mark(insertErr, errs.ErrDatabaseOperationFailed)
			}
			id, replayErr := u.resolveReplay(ctx, tx, idempotencyKey, act.ID, requestHash)
			if replayErr != nil {
				return replayErr
			}
			submissionID = id
			replayed = true
			return nil
		}

		sub, domainErr := submission.NewSubmission(act.ID, in.Material, condition, in.WeightKg, in.Notes, u.defaults)
		if domainErr != nil {
			return mapSubmissionDomainErr(domainErr)
		}

		id, createErr := tx.Submissions().Create(ctx, tx.DB(), sub)
		if createErr != nil {
			return errs.Mark(createErr, errs.ErrDatabaseOperationFailed)
		}

		if completeErr := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, act.ID, id); completeErr != nil {
			return errs.Mark(completeErr, errs.ErrDatabaseOperationFailed)
		}

		submissionID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := u.readView(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	return &CreateSubmissionResult{Submission: view, IsReplayed: replayed}, nil
}

// resolveReplay decides what a reused idempotency key means: a replayed
// response, a still-running request, or key abuse with a different body.
func (u *submissionUseCaseImpl) resolveReplay(ctx context.Context, tx shared.Tx, key, actorID uuid.UUID, requestHash string) (uuid.UUID, error) {
	record, err := tx.Idempotency().Get(ctx, tx.DB(), key, actorID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if record.RequestHash != requestHash {
		return uuid.Nil, errs.ErrDuplicateRequest
	}

	switch record.Status {
	case "completed":
		if record.ResultID == nil {
			return uuid.Nil, errs.New("completed idempotency record missing result id")
		}
		return *record.ResultID, nil
	case "processing":
		return uuid.Nil, errs.ErrIdempotencyInProgress
	default:
		return uuid.Nil, errs.Newf("unexpected idempotency status %q", record.Status)
	}
}

func (u *submissionUseCaseImpl) Update(ctx context.Context, act actor.Actor, id uuid.UUID, in CreateSubmissionInput) (*queries.SubmissionView, error) {
	condition, err := pricing.ParseCondition(in.Condition)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidCondition)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sub, err := u.loadSubmission(ctx, tx, id)
		if err != nil {
			return err
		}
		if sub.CustomerID() != act.ID {
			return errs.ErrForbidden
		}

		expected := sub.Version()
		if err := sub.Reestimate(in.Material, condition, in.WeightKg, u.defaults); err != nil {
			return mapSubmissionDomainErr(err)
		}
		if err := sub.SetNotes(in.Notes); err != nil {
			return mapSubmissionDomainErr(err)
		}

		ok, err := tx.Submissions().UpdateCAS(ctx, tx.DB(), sub, expected)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrConcurrencyConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readView(ctx, id)
}

// Schedule assigns the calling collector. The compare-and-swap is retried
// once on a plain version race; losing to another collector surfaces as
// an assignment conflict, not a retryable error.
func (u *submissionUseCaseImpl) Schedule(ctx context.Context, act actor.Actor, id uuid.UUID, pickupAt time.Time) (*queries.SubmissionView, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		const casAttempts = 2
		for attempt := 0; attempt < casAttempts; attempt++ {
			sub, err := u.loadSubmission(ctx, tx, id)
			if err != nil {
				return err
			}

			expected := sub.Version()
			if err := sub.Schedule(act.ID, pickupAt, u.clock.Now()); err != nil {
				if errors.Is(err, submission.ErrInvalidTransition) && sub.Status() == submission.StatusScheduled {
					return errs.ErrAlreadyAssigned
				}
				return mapSubmissionDomainErr(err)
			}

			ok, err := tx.Submissions().UpdateCAS(ctx, tx.DB(), sub, expected)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if ok {
				return u.notifySchedule(ctx, tx, sub, pickupAt)
			}
			// Lost the swap; re-read and let the fresh status decide.
		}
		return errs.ErrConcurrencyConflict
	})
	if err != nil {
		return nil, err
	}

	return u.readView(ctx, id)
}

func (u *submissionUseCaseImpl) Complete(ctx context.Context, act actor.Actor, id uuid.UUID, in CompleteSubmissionInput) (*CompleteSubmissionResult, error) {
	if !act.IsCollector() {
		return nil, errs.ErrForbidden
	}
	if in.ActualWeightKg != nil && *in.ActualWeightKg <= 0 {
		return nil, errs.Mark(errs.Newf("measured weight %.2f kg is not positive", *in.ActualWeightKg), errs.ErrInvalidWeight)
	}
	if in.ActualPricePerKg != nil && *in.ActualPricePerKg < 0 {
		return nil, errs.Mark(errs.Newf("measured price %d is negative", *in.ActualPricePerKg), errs.ErrInvalidPrice)
	}

	var transactionID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sub, err := u.loadSubmission(ctx, tx, id)
		if err != nil {
			return err
		}
		if sub.CollectorID() == nil || *sub.CollectorID() != act.ID {
			return errs.ErrForbidden
		}

		now := u.clock.Now()
		// A completed submission re-runs settlement idempotently, which
		// resumes a settle interrupted after the status flip committed.
		if sub.Status() != submission.StatusCompleted {
			expected := sub.Version()
			if err := sub.Complete(now); err != nil {
				return mapSubmissionDomainErr(err)
			}
			ok, err := tx.Submissions().UpdateCAS(ctx, tx.DB(), sub, expected)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if !ok {
				return errs.ErrConcurrencyConflict
			}
		}

		trx, err := u.settlement.Settle(ctx, tx, sub, now, in)
		if err != nil {
			return err
		}
		transactionID = trx.ID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := u.readView(ctx, id)
	if err != nil {
		return nil, err
	}
	var trxView *queries.TransactionView
	err = u.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := u.transactionReads.FindByID(ctx, dbtx, transactionID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		trxView = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CompleteSubmissionResult{Submission: view, Transaction: trxView}, nil
}

func (u *submissionUseCaseImpl) Cancel(ctx context.Context, act actor.Actor, id uuid.UUID, reason string) (*queries.SubmissionView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sub, err := u.loadSubmission(ctx, tx, id)
		if err != nil {
			return err
		}

		counterpart, err := cancelCounterpart(sub, act)
		if err != nil {
			return err
		}

		expected := sub.Version()
		if err := sub.Cancel(reason); err != nil {
			return mapSubmissionDomainErr(err)
		}

		ok, err := tx.Submissions().UpdateCAS(ctx, tx.DB(), sub, expected)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrConcurrencyConflict
		}

		if counterpart != uuid.Nil {
			return u.notifyCancel(ctx, tx, sub, counterpart, reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.readView(ctx, id)
}

// cancelCounterpart authorizes the cancel and names who gets told about
// it. The owning customer may always cancel; the assigned collector may
// cancel a scheduled pickup.
func cancelCounterpart(sub *submission.Submission, act actor.Actor) (uuid.UUID, error) {
	if act.IsCustomer() {
		if sub.CustomerID() != act.ID {
			return uuid.Nil, errs.ErrForbidden
		}
		if sub.CollectorID() != nil {
			return *sub.CollectorID(), nil
		}
		return uuid.Nil, nil
	}

	if sub.CollectorID() == nil || *sub.CollectorID() != act.ID {
		return uuid.Nil, errs.ErrForbidden
	}
	return sub.CustomerID(), nil
}

func (u *submissionUseCaseImpl) loadSubmission(ctx context.Context, tx shared.Tx, id uuid.UUID) (*submission.Submission, error) {
	sub, err := tx.Submissions().FindByID(ctx, tx.DB(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSubmissionNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return sub, nil
}

func (u *submissionUseCaseImpl) readView(ctx context.Context, id uuid.UUID) (*queries.SubmissionView, error) {
	var view *queries.SubmissionView
	err := u.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		v, err := u.submissionReads.FindByID(ctx, dbtx, id)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (u *submissionUseCaseImpl) notifySchedule(ctx context.Context, tx shared.Tx, sub *submission.Submission, pickupAt time.Time) error {
	subID := sub.ID()
	n := &shared.Notification{
		ID:          uuid.New(),
		RecipientID: sub.CustomerID(),
		Title:       "Pickup scheduled",
		Body: fmt.Sprintf("A collector will pick up your %s cardboard on %s.",
			sub.Material(), pickupAt.Format(time.RFC1123)),
		Category:      shared.NotifyCategorySchedule,
		RelatedEntity: "submission",
		RelatedID:     &subID,
	}
	if err := tx.Notifications().Create(ctx, tx.DB(), n); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *submissionUseCaseImpl) notifyCancel(ctx context.Context, tx shared.Tx, sub *submission.Submission, recipientID uuid.UUID, reason string) error {
	subID := sub.ID()
	body := "A submission you were involved in was cancelled."
	if reason != "" {
		body = fmt.Sprintf("A submission you were involved in was cancelled: %s.", reason)
	}
	n := &shared.Notification{
		ID:            uuid.New(),
		RecipientID:   recipientID,
		Title:         "Submission cancelled",
		Body:          body,
		Category:      shared.NotifyCategoryCancel,
		RelatedEntity: "submission",
		RelatedID:     &subID,
	}
	if err := tx.Notifications().Create(ctx, tx.DB(), n); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func mapSubmissionDomainErr(err error) error {
	switch {
	case errors.Is(err, submission.ErrWeightBelowMinimum):
		return errs.Mark(err, errs.ErrInvalidWeight)
	case errors.Is(err, submission.ErrEmptyMaterial):
		return errs.Mark(err, errs.ErrInvalidMaterial)
	case errors.Is(err, submission.ErrPickupNotFuture):
		return errs.Mark(err, errs.ErrInvalidPickupTime)
	case errors.Is(err, submission.ErrInvalidTransition), errors.Is(err, submission.ErrCollectorRequired):
		return errs.Mark(err, errs.ErrInvalidTransition)
	case errors.Is(err, pricing.ErrPriceUnavailable):
		return errs.Mark(err, errs.ErrPriceUnavailable)
	case errors.Is(err, pricing.ErrInvalidCondition):
		return errs.Mark(err, errs.ErrInvalidCondition)
	default:
		return errs.Wrap(err, "submission domain rule failed")
	}
}

func calculateRequestHash(in CreateSubmissionInput) string {
	data, _ := json.Marshal(in)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
