//go:build unit

package commands_test

import (
	"context"
	"testing"

	"kardus/internal/domain/pricing"
	"kardus/internal/pkg/errs"
	"kardus/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionUC(store *fakeStore) commands.TransactionCommands {
	return commands.NewTransactionUseCase(&fakeUoW{store}, &fakeTransactionReads{store}, &fakeReceipts{})
}

func TestCreateAdHocTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("records an off-platform exchange with derived total", func(t *testing.T) {
		store := newFakeStore()
		uc := newTransactionUC(store)
		col := collector()
		custID := uuid.New()

		view, err := uc.CreateAdHoc(ctx, col, commands.AdHocTransactionInput{
			CustomerID: custID,
			Material:   pricing.MaterialThick,
			Condition:  "good",
			WeightKg:   15,
			PricePerKg: 1800,
		})
		require.NoError(t, err)

		assert.Nil(t, view.SubmissionID)
		assert.Equal(t, int64(27000), view.TotalAmount)
		assert.Equal(t, "pending", view.PaymentStatus)
		assert.NotEmpty(t, view.ReceiptNumber)
	})

	t.Run("rounds the total half-up", func(t *testing.T) {
		store := newFakeStore()
		uc := newTransactionUC(store)

		view, err := uc.CreateAdHoc(ctx, collector(), commands.AdHocTransactionInput{
			CustomerID: uuid.New(),
			Material:   pricing.MaterialThin,
			Condition:  "fair",
			WeightKg:   0.5,
			PricePerKg: 1001,
		})
		require.NoError(t, err)

		// 1001 x 0.5 = 500.5, rounds up to 501.
		assert.Equal(t, int64(501), view.TotalAmount)
	})

	t.Run("customers cannot record transactions", func(t *testing.T) {
		store := newFakeStore()
		uc := newTransactionUC(store)

		_, err := uc.CreateAdHoc(ctx, customer(), commands.AdHocTransactionInput{
			CustomerID: uuid.New(),
			Material:   pricing.MaterialThick,
			Condition:  "good",
			WeightKg:   15,
			PricePerKg: 1800,
		})
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("rejects non-positive weight", func(t *testing.T) {
		store := newFakeStore()
		uc := newTransactionUC(store)

		_, err := uc.CreateAdHoc(ctx, collector(), commands.AdHocTransactionInput{
			CustomerID: uuid.New(),
			Material:   pricing.MaterialThick,
			Condition:  "good",
			WeightKg:   0,
			PricePerKg: 1800,
		})
		assert.ErrorIs(t, err, errs.ErrInvalidWeight)
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, store *fakeStore, uc commands.TransactionCommands) (uuid.UUID, uuid.UUID) {
		t.Helper()
		col := collector()
		view, err := uc.CreateAdHoc(ctx, col, commands.AdHocTransactionInput{
			CustomerID: uuid.New(),
			Material:   pricing.MaterialThick,
			Condition:  "good",
			WeightKg:   15,
			PricePerKg: 1800,
		})
		require.NoError(t, err)
		return view.ID, col.ID
	}

	t.Run("pending moves to completed", func(t *testing.T) {
		store := newFakeStore()
		uc := newTransactionUC(store)
		id, colID := seed(t, store, uc)

		view, err := uc.UpdatePaymentStatus(ctx, collectorWithID(colID), id, "completed")
		require.NoError(t, err)
		assert.Equal(t, "completed", view.PaymentStatus)
	})

	t.Run("completed is final", func(t *testing.T) {
		store := newFakeStore()
		uc := newTransactionUC(store)
		id, colID := seed(t, store, uc)

		_, err := uc.UpdatePaymentStatus(ctx, collectorWithID(colID), id, "completed")
		require.NoError(t, err)
		_, err = uc.UpdatePaymentStatus(ctx, collectorWithID(colID), id, "cancelled")
		assert.ErrorIs(t, err, errs.ErrPaymentStatusFinal)
	})

	t.Run("only the owning collector may update", func(t *testing.T) {
		store := newFakeStore()
		uc := newTransactionUC(store)
		id, _ := seed(t, store, uc)

		_, err := uc.UpdatePaymentStatus(ctx, collector(), id, "completed")
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("unknown status and unknown transaction", func(t *testing.T) {
		store := newFakeStore()
		uc := newTransactionUC(store)
		id, colID := seed(t, store, uc)

		_, err := uc.UpdatePaymentStatus(ctx, collectorWithID(colID), id, "refunded")
		assert.ErrorIs(t, err, errs.ErrInvalidPaymentStatus)

		_, err = uc.UpdatePaymentStatus(ctx, collectorWithID(colID), uuid.New(), "completed")
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})
}
