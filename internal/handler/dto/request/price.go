package request

import "kardus/internal/usecase/commands"

type PriceEntryRequest struct {
	Material  string `json:"material_type" binding:"required"`
	Condition string `json:"condition" binding:"required"`
	// Pointer so an explicit zero quote survives required-field binding.
	PricePerKg *int64 `json:"price_per_kg" binding:"required,min=0"`
}

func (r PriceEntryRequest) ToInput() commands.PriceEntryInput {
	return commands.PriceEntryInput{
		Material:   r.Material,
		Condition:  r.Condition,
		PricePerKg: *r.PricePerKg,
	}
}

type ReplacePriceTableRequest struct {
	Entries []PriceEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

func (r ReplacePriceTableRequest) ToInputs() []commands.PriceEntryInput {
	inputs := make([]commands.PriceEntryInput, 0, len(r.Entries))
	for _, e := range r.Entries {
		inputs = append(inputs, e.ToInput())
	}
	return inputs
}
