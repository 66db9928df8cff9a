// Package pricing computes estimated and final values for cardboard.
// Estimate is a pure function over a price table snapshot: no I/O, safe
// to call concurrently and repeatedly.
package pricing

import (
	"errors"
	"math"
)

var (
	ErrPriceUnavailable = errors.New("no active price for material and condition")
	ErrNegativeWeight   = errors.New("weight cannot be negative")
	ErrInvalidCondition = errors.New("invalid condition")
)

// Material types are an open enumeration; collectors may quote any type.
// These are the ones the platform seeds defaults for.
const (
	MaterialThick = "thick"
	MaterialThin  = "thin"
	MaterialUsed  = "used"
)

type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

func ParseCondition(s string) (Condition, error) {
	switch Condition(s) {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return Condition(s), nil
	default:
		return "", ErrInvalidCondition
	}
}

func (c Condition) String() string {
	return string(c)
}

// multiplier grades a per-type base rate into per-condition rates. Only
// the platform default table is quoted per type; collector tables quote
// each (material, condition) pair directly.
func (c Condition) multiplier() float64 {
	switch c {
	case ConditionExcellent:
		return 1.0
	case ConditionGood:
		return 0.9
	case ConditionFair:
		return 0.8
	case ConditionPoor:
		return 0.7
	default:
		return 0
	}
}

var conditions = []Condition{ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor}

type tableKey struct {
	material  string
	condition Condition
}

// Table is an immutable snapshot of active price-per-kg entries, in whole
// rupiah.
type Table struct {
	perKg map[tableKey]int64
}

func NewTable() *Table {
	return &Table{perKg: make(map[tableKey]int64)}
}

func (t *Table) Set(material string, condition Condition, pricePerKg int64) {
	t.perKg[tableKey{material: material, condition: condition}] = pricePerKg
}

func (t *Table) Lookup(material string, condition Condition) (int64, bool) {
	price, ok := t.perKg[tableKey{material: material, condition: condition}]
	return price, ok
}

func (t *Table) Len() int {
	return len(t.perKg)
}

// DefaultTable expands per-type platform rates across all conditions.
func DefaultTable(thickPerKg, thinPerKg, usedPerKg int64) *Table {
	t := NewTable()
	base := map[string]int64{
		MaterialThick: thickPerKg,
		MaterialThin:  thinPerKg,
		MaterialUsed:  usedPerKg,
	}
	for material, rate := range base {
		for _, cond := range conditions {
			t.Set(material, cond, roundHalfUp(float64(rate)*cond.multiplier()))
		}
	}
	return t
}

// Estimate returns weight × active price-per-kg rounded half-up to whole
// rupiah. The caller owns the minimum-weight rule; any non-negative
// weight prices here. A missing pair returns ErrPriceUnavailable rather
// than guessing — falling back to the platform default table is the
// caller's decision.
func Estimate(material string, condition Condition, weightKg float64, table *Table) (int64, error) {
	if weightKg < 0 {
		return 0, ErrNegativeWeight
	}
	if _, err := ParseCondition(condition.String()); err != nil {
		return 0, err
	}

	pricePerKg, ok := table.Lookup(material, condition)
	if !ok {
		return 0, ErrPriceUnavailable
	}

	return roundHalfUp(float64(pricePerKg) * weightKg), nil
}

// Total re-derives a transaction amount from its snapshot inputs. Caller
// supplied totals are never trusted.
func Total(pricePerKg int64, weightKg float64) int64 {
	return roundHalfUp(float64(pricePerKg) * weightKg)
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
