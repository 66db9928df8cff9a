//go:build unit

package pricing_test

import (
	"testing"

	"kardus/internal/domain/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	table := pricing.NewTable()
	table.Set(pricing.MaterialThick, pricing.ConditionGood, 1800)
	table.Set(pricing.MaterialThick, pricing.ConditionExcellent, 2500)
	table.Set(pricing.MaterialThin, pricing.ConditionFair, 1600)

	t.Run("fixed scenario from active table", func(t *testing.T) {
		amount, err := pricing.Estimate(pricing.MaterialThick, pricing.ConditionGood, 15, table)
		require.NoError(t, err)
		assert.Equal(t, int64(27000), amount)
	})

	t.Run("fractional weight rounds half up", func(t *testing.T) {
		// 1600 * 10.3 = 16480 exactly; 1600 * 10.25 = 16400
		amount, err := pricing.Estimate(pricing.MaterialThin, pricing.ConditionFair, 10.25, table)
		require.NoError(t, err)
		assert.Equal(t, int64(16400), amount)

		odd := pricing.NewTable()
		odd.Set(pricing.MaterialUsed, pricing.ConditionPoor, 3)
		// 3 * 10.5 = 31.5 -> 32
		amount, err = pricing.Estimate(pricing.MaterialUsed, pricing.ConditionPoor, 10.5, odd)
		require.NoError(t, err)
		assert.Equal(t, int64(32), amount)
	})

	t.Run("missing pair fails instead of guessing", func(t *testing.T) {
		_, err := pricing.Estimate(pricing.MaterialUsed, pricing.ConditionGood, 15, table)
		assert.ErrorIs(t, err, pricing.ErrPriceUnavailable)
	})

	t.Run("weight below platform minimum still prices", func(t *testing.T) {
		// The 10 kg floor belongs to the submission state machine.
		amount, err := pricing.Estimate(pricing.MaterialThick, pricing.ConditionGood, 2, table)
		require.NoError(t, err)
		assert.Equal(t, int64(3600), amount)
	})

	t.Run("zero weight is a zero amount", func(t *testing.T) {
		amount, err := pricing.Estimate(pricing.MaterialThick, pricing.ConditionGood, 0, table)
		require.NoError(t, err)
		assert.Equal(t, int64(0), amount)
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		_, err := pricing.Estimate(pricing.MaterialThick, pricing.ConditionGood, -1, table)
		assert.ErrorIs(t, err, pricing.ErrNegativeWeight)
	})

	t.Run("unknown condition rejected", func(t *testing.T) {
		_, err := pricing.Estimate(pricing.MaterialThick, pricing.Condition("mint"), 15, table)
		assert.ErrorIs(t, err, pricing.ErrInvalidCondition)
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		first, err := pricing.Estimate(pricing.MaterialThick, pricing.ConditionGood, 15, table)
		require.NoError(t, err)
		second, err := pricing.Estimate(pricing.MaterialThick, pricing.ConditionGood, 15, table)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestDefaultTable(t *testing.T) {
	table := pricing.DefaultTable(2500, 2000, 1800)

	cases := []struct {
		name      string
		material  string
		condition pricing.Condition
		want      int64
	}{
		{"thick excellent keeps base rate", pricing.MaterialThick, pricing.ConditionExcellent, 2500},
		{"thick good graded to 90%", pricing.MaterialThick, pricing.ConditionGood, 2250},
		{"thin fair graded to 80%", pricing.MaterialThin, pricing.ConditionFair, 1600},
		{"used poor graded to 70%", pricing.MaterialUsed, pricing.ConditionPoor, 1260},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := table.Lookup(tc.material, tc.condition)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("covers every seeded pair", func(t *testing.T) {
		assert.Equal(t, 12, table.Len())
	})
}

func TestTotal(t *testing.T) {
	assert.Equal(t, int64(27000), pricing.Total(1800, 15))
	assert.Equal(t, int64(32), pricing.Total(3, 10.5))
}

func TestParseCondition(t *testing.T) {
	for _, s := range []string{"excellent", "good", "fair", "poor"} {
		c, err := pricing.ParseCondition(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.String())
	}

	_, err := pricing.ParseCondition("pristine")
	assert.ErrorIs(t, err, pricing.ErrInvalidCondition)
}
