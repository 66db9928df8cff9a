package request

import (
	"strings"
	"time"

	"kardus/internal/usecase/commands"
)

type CreateInventoryItemRequest struct {
	Material   string    `json:"material_type" binding:"required"`
	Condition  string    `json:"condition" binding:"required"`
	WeightKg   float64   `json:"weight_kg" binding:"required,gt=0"`
	AcquiredOn time.Time `json:"acquired_on" binding:"required"`
	SourceNote string    `json:"source_note" binding:"required"`
	Notes      *string   `json:"notes,omitempty"`
}

func (r CreateInventoryItemRequest) ToInput() commands.CreateInventoryItemInput {
	notes := ""
	if r.Notes != nil {
		notes = strings.TrimSpace(*r.Notes)
	}
	return commands.CreateInventoryItemInput{
		Material:   r.Material,
		Condition:  r.Condition,
		WeightKg:   r.WeightKg,
		AcquiredOn: r.AcquiredOn,
		SourceNote: r.SourceNote,
		Notes:      notes,
	}
}

type UpdateInventoryItemRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

func (r UpdateInventoryItemRequest) ToInput() commands.UpdateInventoryItemInput {
	var notes *string
	if r.Notes != nil {
		trimmed := strings.TrimSpace(*r.Notes)
		notes = &trimmed
	}
	return commands.UpdateInventoryItemInput{
		Status: r.Status,
		Notes:  notes,
	}
}
