package commands

import (
	"context"
	"fmt"
	"time"

	"kardus/internal/domain/inventory"
	"kardus/internal/domain/pricing"
	"kardus/internal/domain/submission"
	"kardus/internal/domain/transaction"
	"kardus/internal/infra"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/shared"

	"github.com/google/uuid"
)

// SettlementService reconciles a completed submission into its financial
// record: one transaction, one inventory item, one customer notification.
// Settle is idempotent; every write is keyed on the submission or the
// transaction it produced, so a crashed or retried settlement resumes
// instead of duplicating.
type SettlementService struct {
	priceReads PriceReads
	receipts   ReceiptIssuer
	defaults   *pricing.Table
}

func NewSettlementService(priceReads PriceReads, receipts ReceiptIssuer, defaults *pricing.Table) *SettlementService {
	return &SettlementService{
		priceReads: priceReads,
		receipts:   receipts,
		defaults:   defaults,
	}
}

// Settle must run inside the same transaction that completed the
// submission. sub must already be in completed status with a collector
// assigned. Measured values in `in` override the creation-time estimate;
// on a replay they are ignored and the settled transaction stands.
func (s *SettlementService) Settle(ctx context.Context, tx shared.Tx, sub *submission.Submission, now time.Time, in CompleteSubmissionInput) (*transaction.Transaction, error) {
	if sub.Status() != submission.StatusCompleted || sub.CollectorID() == nil {
		return nil, errs.ErrInvalidTransition
	}
	collectorID := *sub.CollectorID()

	trx, err := s.ensureTransaction(ctx, tx, sub, collectorID, in)
	if err != nil {
		return nil, err
	}

	item := inventory.NewFromTransaction(trx, now)
	if err := tx.Inventory().CreateFromSettlement(ctx, tx.DB(), item); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := s.notifyCustomer(ctx, tx, sub, trx); err != nil {
		return nil, err
	}

	return trx, nil
}

// ensureTransaction returns the settlement transaction, creating it on
// first settle and re-reading the winner on a replay or lost race.
func (s *SettlementService) ensureTransaction(ctx context.Context, tx shared.Tx, sub *submission.Submission, collectorID uuid.UUID, in CompleteSubmissionInput) (*transaction.Transaction, error) {
	existing, err := tx.Transactions().FindBySubmissionID(ctx, tx.DB(), sub.ID())
	if err == nil {
		return existing, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	weightKg := sub.WeightKg()
	if in.ActualWeightKg != nil {
		weightKg = *in.ActualWeightKg
	}

	var pricePerKg int64
	if in.ActualPricePerKg != nil {
		pricePerKg = *in.ActualPricePerKg
	} else {
		pricePerKg, err = s.resolvePrice(ctx, tx, collectorID, sub.Material(), sub.Condition())
		if err != nil {
			return nil, err
		}
	}

	subID := sub.ID()
	trx, err := transaction.New(
		s.receipts.Next(), collectorID, sub.CustomerID(), &subID,
		sub.Material(), sub.Condition(), weightKg, pricePerKg,
	)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build settlement transaction")
	}

	inserted, err := tx.Transactions().Create(ctx, tx.DB(), trx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !inserted {
		winner, err := tx.Transactions().FindBySubmissionID(ctx, tx.DB(), sub.ID())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return winner, nil
	}

	return trx, nil
}

// resolvePrice prefers the collector's live quote and falls back to the
// platform default table.
func (s *SettlementService) resolvePrice(ctx context.Context, tx shared.Tx, collectorID uuid.UUID, material string, condition pricing.Condition) (int64, error) {
	table, err := s.priceReads.ActiveTable(ctx, tx.DB(), collectorID)
	if err != nil {
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if price, ok := table.Lookup(material, condition); ok {
		return price, nil
	}
	if price, ok := s.defaults.Lookup(material, condition); ok {
		return price, nil
	}

	return 0, errs.ErrPriceUnavailable
}

func (s *SettlementService) notifyCustomer(ctx context.Context, tx shared.Tx, sub *submission.Submission, trx *transaction.Transaction) error {
	subID := sub.ID()
	n := &shared.Notification{
		ID:          uuid.New(),
		RecipientID: sub.CustomerID(),
		Title:       "Pickup settled",
		Body: fmt.Sprintf("Your %s cardboard (%.1f kg) was settled for Rp%d, receipt %s.",
			trx.Material(), trx.WeightKg(), trx.TotalAmount(), trx.ReceiptNumber()),
		Category:      shared.NotifyCategorySettlement,
		RelatedEntity: "submission",
		RelatedID:     &subID,
	}
	if err := tx.Notifications().CreateOncePerRelated(ctx, tx.DB(), n); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return nil
}
