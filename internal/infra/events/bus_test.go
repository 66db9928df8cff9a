//go:build unit

package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"kardus/internal/infra/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submissionEvent(t *testing.T, op events.Operation, row map[string]any) events.Event {
	t.Helper()
	raw, err := json.Marshal(row)
	require.NoError(t, err)
	return events.Event{
		Entity:     "submissions",
		Op:         op,
		Row:        raw,
		OccurredAt: time.Now(),
	}
}

func TestFanOutSubscribe(t *testing.T) {
	t.Run("delivers events for the subscribed entity only", func(t *testing.T) {
		fanOut := events.NewFanOut()

		var got []events.Event
		unsubscribe, err := fanOut.Subscribe("submissions", nil, func(ev events.Event) {
			got = append(got, ev)
		})
		require.NoError(t, err)
		defer unsubscribe()

		fanOut.Publish(submissionEvent(t, events.OpInsert, map[string]any{"id": "a"}))
		fanOut.Publish(events.Event{Entity: "transactions", Op: events.OpInsert, Row: json.RawMessage(`{}`)})

		require.Len(t, got, 1)
		assert.Equal(t, "submissions", got[0].Entity)
	})

	t.Run("preserves publish order per entity", func(t *testing.T) {
		fanOut := events.NewFanOut()

		var order []string
		unsubscribe, err := fanOut.Subscribe("submissions", nil, func(ev events.Event) {
			var row map[string]string
			require.NoError(t, json.Unmarshal(ev.Row, &row))
			order = append(order, row["id"])
		})
		require.NoError(t, err)
		defer unsubscribe()

		for _, id := range []string{"a", "b", "c", "d"} {
			fanOut.Publish(submissionEvent(t, events.OpUpdate, map[string]any{"id": id}))
		}

		assert.Equal(t, []string{"a", "b", "c", "d"}, order)
	})

	t.Run("field filter narrows delivery", func(t *testing.T) {
		fanOut := events.NewFanOut()

		var got int
		filter := &events.FieldFilter{Field: "status", Value: "scheduled"}
		unsubscribe, err := fanOut.Subscribe("submissions", filter, func(events.Event) {
			got++
		})
		require.NoError(t, err)
		defer unsubscribe()

		fanOut.Publish(submissionEvent(t, events.OpUpdate, map[string]any{"status": "scheduled"}))
		fanOut.Publish(submissionEvent(t, events.OpUpdate, map[string]any{"status": "pending"}))
		fanOut.Publish(submissionEvent(t, events.OpUpdate, map[string]any{"other": "x"}))

		assert.Equal(t, 1, got)
	})

	t.Run("unsubscribe stops delivery and is idempotent", func(t *testing.T) {
		fanOut := events.NewFanOut()

		var got int
		unsubscribe, err := fanOut.Subscribe("submissions", nil, func(events.Event) {
			got++
		})
		require.NoError(t, err)

		fanOut.Publish(submissionEvent(t, events.OpInsert, map[string]any{"id": "a"}))
		unsubscribe()
		unsubscribe()
		fanOut.Publish(submissionEvent(t, events.OpInsert, map[string]any{"id": "b"}))

		assert.Equal(t, 1, got)
	})

	t.Run("unsubscribing one observer leaves the others registered", func(t *testing.T) {
		fanOut := events.NewFanOut()

		counts := make([]int, 2)
		subscribe := func(i int) func() {
			u, err := fanOut.Subscribe("submissions", nil, func(events.Event) { counts[i]++ })
			require.NoError(t, err)
			return u
		}
		// Both handlers come from the same function literal, so they
		// must be told apart by registration, not code identity.
		u1 := subscribe(0)
		defer u1()
		u2 := subscribe(1)

		u2()
		fanOut.Publish(submissionEvent(t, events.OpInsert, map[string]any{"id": "a"}))

		assert.Equal(t, 1, counts[0])
		assert.Equal(t, 0, counts[1])
	})

	t.Run("independent subscribers each receive the event", func(t *testing.T) {
		fanOut := events.NewFanOut()

		var first, second int
		u1, err := fanOut.Subscribe("submissions", nil, func(events.Event) { first++ })
		require.NoError(t, err)
		defer u1()
		u2, err := fanOut.Subscribe("submissions", nil, func(events.Event) { second++ })
		require.NoError(t, err)
		defer u2()

		fanOut.Publish(submissionEvent(t, events.OpInsert, map[string]any{"id": "a"}))

		assert.Equal(t, 1, first)
		assert.Equal(t, 1, second)
	})
}

func TestFieldFilterMatches(t *testing.T) {
	t.Run("nil filter matches everything", func(t *testing.T) {
		var f *events.FieldFilter
		assert.True(t, f.Matches(events.Event{Row: json.RawMessage(`{"a":1}`)}))
	})

	t.Run("numeric fields compare as literal JSON", func(t *testing.T) {
		f := &events.FieldFilter{Field: "version", Value: "3"}
		assert.True(t, f.Matches(events.Event{Row: json.RawMessage(`{"version":3}`)}))
		assert.False(t, f.Matches(events.Event{Row: json.RawMessage(`{"version":4}`)}))
	})

	t.Run("malformed row never matches", func(t *testing.T) {
		f := &events.FieldFilter{Field: "a", Value: "b"}
		assert.False(t, f.Matches(events.Event{Row: json.RawMessage(`not json`)}))
	})
}
