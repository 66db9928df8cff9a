package request

import (
	"strings"
	"time"

	"kardus/internal/usecase/commands"
)

type CreateSubmissionRequest struct {
	Material  string  `json:"material_type" binding:"required"`
	Condition string  `json:"condition" binding:"required"`
	WeightKg  float64 `json:"weight_kg" binding:"required,gt=0"`
	Notes     *string `json:"notes,omitempty"`
}

func (r CreateSubmissionRequest) ToInput() commands.CreateSubmissionInput {
	notes := ""
	if r.Notes != nil {
		notes = strings.TrimSpace(*r.Notes)
	}
	return commands.CreateSubmissionInput{
		Material:  r.Material,
		Condition: r.Condition,
		WeightKg:  r.WeightKg,
		Notes:     notes,
	}
}

type ScheduleSubmissionRequest struct {
	PickupAt time.Time `json:"pickup_at" binding:"required"`
}

// CompleteSubmissionRequest is the optional completion body. Absent
// fields settle on the creation-time estimate and the live price table.
type CompleteSubmissionRequest struct {
	ActualWeightKg   *float64 `json:"actual_weight_kg" binding:"omitempty,gt=0"`
	ActualPricePerKg *int64   `json:"actual_price_per_kg" binding:"omitempty,min=0"`
}

func (r CompleteSubmissionRequest) ToInput() commands.CompleteSubmissionInput {
	return commands.CompleteSubmissionInput{
		ActualWeightKg:   r.ActualWeightKg,
		ActualPricePerKg: r.ActualPricePerKg,
	}
}

type CancelSubmissionRequest struct {
	Reason string `json:"reason" binding:"required"`
}
