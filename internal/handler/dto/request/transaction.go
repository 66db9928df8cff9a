package request

import (
	"kardus/internal/usecase/commands"

	"github.com/google/uuid"
)

type AdHocTransactionRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Material   string    `json:"material_type" binding:"required"`
	Condition  string    `json:"condition" binding:"required"`
	WeightKg   float64   `json:"weight_kg" binding:"required,gt=0"`
	// Pointer so an explicit zero price ("taken for free") binds.
	PricePerKg *int64 `json:"price_per_kg" binding:"required,min=0"`
}

func (r AdHocTransactionRequest) ToInput() commands.AdHocTransactionInput {
	return commands.AdHocTransactionInput{
		CustomerID: r.CustomerID,
		Material:   r.Material,
		Condition:  r.Condition,
		WeightKg:   r.WeightKg,
		PricePerKg: *r.PricePerKg,
	}
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}
