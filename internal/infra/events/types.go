// Package events turns the database change feed into in-process
// subscriptions. Delivery is at-least-once: a subscriber that needs
// exactly-once must dedupe on the row id and operation.
package events

import (
	"encoding/json"
	"time"
)

type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Event is one row change. Row carries the full new row (old row for
// deletes) exactly as the trigger serialized it.
type Event struct {
	Entity     string          `json:"entity"`
	Op         Operation       `json:"op"`
	Row        json.RawMessage `json:"row"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// FieldFilter matches events whose row has Field equal to Value after
// JSON decoding. Non-object rows and missing fields never match.
type FieldFilter struct {
	Field string
	Value string
}

func (f *FieldFilter) Matches(ev Event) bool {
	if f == nil {
		return true
	}

	var row map[string]json.RawMessage
	if err := json.Unmarshal(ev.Row, &row); err != nil {
		return false
	}
	raw, ok := row[f.Field]
	if !ok {
		return false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// Non-string fields compare against their literal JSON text.
		return string(raw) == f.Value
	}
	return s == f.Value
}
