//go:build unit

package submission_test

import (
	"testing"
	"time"

	"kardus/internal/domain/pricing"
	"kardus/internal/domain/submission"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeTable() *pricing.Table {
	table := pricing.NewTable()
	table.Set(pricing.MaterialThick, pricing.ConditionGood, 1800)
	table.Set(pricing.MaterialThick, pricing.ConditionExcellent, 2500)
	table.Set(pricing.MaterialThin, pricing.ConditionGood, 2000)
	return table
}

func pendingSubmission(t *testing.T) *submission.Submission {
	t.Helper()
	sub, err := submission.NewSubmission(
		uuid.New(), pricing.MaterialThick, pricing.ConditionGood, 15, "gate on the left", activeTable(),
	)
	require.NoError(t, err)
	return sub
}

func TestNewSubmission(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		sub := pendingSubmission(t)

		assert.NotEqual(t, uuid.Nil, sub.ID())
		assert.Equal(t, submission.StatusPending, sub.Status())
		assert.Equal(t, int64(27000), sub.EstimatedPrice())
		assert.Nil(t, sub.CollectorID())
		assert.Nil(t, sub.PickupAt())
		assert.Equal(t, int32(1), sub.Version())
		assert.True(t, sub.CollectorInvariantHolds())
	})

	t.Run("weight below minimum", func(t *testing.T) {
		_, err := submission.NewSubmission(
			uuid.New(), pricing.MaterialThick, pricing.ConditionGood, 9.9, "", activeTable(),
		)
		assert.ErrorIs(t, err, submission.ErrWeightBelowMinimum)
	})

	t.Run("weight exactly at minimum", func(t *testing.T) {
		sub, err := submission.NewSubmission(
			uuid.New(), pricing.MaterialThick, pricing.ConditionGood, 10, "", activeTable(),
		)
		require.NoError(t, err)
		assert.Equal(t, int64(18000), sub.EstimatedPrice())
	})

	t.Run("no matching price entry", func(t *testing.T) {
		_, err := submission.NewSubmission(
			uuid.New(), pricing.MaterialUsed, pricing.ConditionPoor, 15, "", activeTable(),
		)
		assert.ErrorIs(t, err, pricing.ErrPriceUnavailable)
	})

	t.Run("blank material", func(t *testing.T) {
		_, err := submission.NewSubmission(
			uuid.New(), "  ", pricing.ConditionGood, 15, "", activeTable(),
		)
		assert.ErrorIs(t, err, submission.ErrEmptyMaterial)
	})
}

func TestSchedule(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	pickup := now.Add(24 * time.Hour)
	collectorID := uuid.New()

	t.Run("pending to scheduled", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Schedule(collectorID, pickup, now))

		assert.Equal(t, submission.StatusScheduled, sub.Status())
		require.NotNil(t, sub.CollectorID())
		assert.Equal(t, collectorID, *sub.CollectorID())
		require.NotNil(t, sub.PickupAt())
		assert.Equal(t, pickup, *sub.PickupAt())
		assert.True(t, sub.CollectorInvariantHolds())
	})

	t.Run("pickup in the past", func(t *testing.T) {
		sub := pendingSubmission(t)
		err := sub.Schedule(collectorID, now.Add(-time.Hour), now)
		assert.ErrorIs(t, err, submission.ErrPickupNotFuture)
		assert.Equal(t, submission.StatusPending, sub.Status())
	})

	t.Run("already scheduled", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Schedule(collectorID, pickup, now))
		err := sub.Schedule(uuid.New(), pickup, now)
		assert.ErrorIs(t, err, submission.ErrInvalidTransition)
	})

	t.Run("cancelled submission", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Cancel("changed my mind"))
		err := sub.Schedule(collectorID, pickup, now)
		assert.ErrorIs(t, err, submission.ErrInvalidTransition)
	})
}

func TestComplete(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("scheduled to completed", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Schedule(uuid.New(), now.Add(time.Hour), now))

		completedAt := now.Add(2 * time.Hour)
		require.NoError(t, sub.Complete(completedAt))

		assert.Equal(t, submission.StatusCompleted, sub.Status())
		require.NotNil(t, sub.CompletedAt())
		assert.Equal(t, completedAt, *sub.CompletedAt())
		assert.True(t, sub.CollectorInvariantHolds())
	})

	t.Run("cannot skip scheduled", func(t *testing.T) {
		sub := pendingSubmission(t)
		assert.ErrorIs(t, sub.Complete(now), submission.ErrInvalidTransition)
	})

	t.Run("terminal states reject completion", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Cancel(""))
		assert.ErrorIs(t, sub.Complete(now), submission.ErrInvalidTransition)
	})
}

func TestCancel(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("from pending", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Cancel("sold elsewhere"))
		assert.Equal(t, submission.StatusCancelled, sub.Status())
		assert.Equal(t, "sold elsewhere", sub.CancelReason())
		assert.True(t, sub.CollectorInvariantHolds())
	})

	t.Run("from scheduled clears assignment", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Schedule(uuid.New(), now.Add(time.Hour), now))
		require.NoError(t, sub.Cancel("collector no-show"))

		assert.Equal(t, submission.StatusCancelled, sub.Status())
		assert.Nil(t, sub.CollectorID())
		assert.True(t, sub.CollectorInvariantHolds())
	})

	t.Run("terminal states reject cancellation", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Schedule(uuid.New(), now.Add(time.Hour), now))
		require.NoError(t, sub.Complete(now))
		assert.ErrorIs(t, sub.Cancel(""), submission.ErrInvalidTransition)

		cancelled := pendingSubmission(t)
		require.NoError(t, cancelled.Cancel(""))
		assert.ErrorIs(t, cancelled.Cancel("again"), submission.ErrInvalidTransition)
	})
}

func TestReestimate(t *testing.T) {
	t.Run("pending edit recomputes estimate", func(t *testing.T) {
		sub := pendingSubmission(t)
		require.NoError(t, sub.Reestimate(pricing.MaterialThin, pricing.ConditionGood, 20, activeTable()))

		assert.Equal(t, pricing.MaterialThin, sub.Material())
		assert.Equal(t, float64(20), sub.WeightKg())
		assert.Equal(t, int64(40000), sub.EstimatedPrice())
	})

	t.Run("rejected once scheduled", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		sub := pendingSubmission(t)
		require.NoError(t, sub.Schedule(uuid.New(), now.Add(time.Hour), now))

		err := sub.Reestimate(pricing.MaterialThin, pricing.ConditionGood, 20, activeTable())
		assert.ErrorIs(t, err, submission.ErrInvalidTransition)
	})

	t.Run("weight floor still applies", func(t *testing.T) {
		sub := pendingSubmission(t)
		err := sub.Reestimate(pricing.MaterialThick, pricing.ConditionGood, 5, activeTable())
		assert.ErrorIs(t, err, submission.ErrWeightBelowMinimum)
	})
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "scheduled", "completed", "cancelled"} {
		parsed, err := submission.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, parsed.String())
	}

	_, err := submission.ParseStatus("archived")
	assert.ErrorIs(t, err, submission.ErrInvalidStatus)

	assert.True(t, submission.StatusCompleted.IsTerminal())
	assert.True(t, submission.StatusCancelled.IsTerminal())
	assert.False(t, submission.StatusPending.IsTerminal())
	assert.False(t, submission.StatusScheduled.IsTerminal())
}
