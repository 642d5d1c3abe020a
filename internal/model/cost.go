package model

// Cost is one treatment cost line item. CreatedAt feeds the cost trend
// aggregation.
type Cost struct {
	Base
	Treatment      string   `db:"treatment" json:"treatment"`
	Cost           float64  `db:"cost" json:"cost"`
	Notes          *string  `db:"notes" json:"notes,omitempty"`
	Facility       *string  `db:"facility" json:"facility,omitempty"`
	Region         *string  `db:"region" json:"region,omitempty"`
	Category       *string  `db:"category" json:"category,omitempty"`
	NHIFCovered    *string  `db:"nhif_covered" json:"nhif_covered,omitempty"`
	InsuranceCopay *float64 `db:"insurance_copay" json:"insurance_copay,omitempty"`
	OutOfPocket    *float64 `db:"out_of_pocket" json:"out_of_pocket,omitempty"`
}

type CreateCostRequest struct {
	Treatment      string   `json:"treatment" binding:"required"`
	Cost           float64  `json:"cost" binding:"required,gte=0"`
	Notes          *string  `json:"notes"`
	Facility       *string  `json:"facility"`
	Region         *string  `json:"region"`
	Category       *string  `json:"category"`
	NHIFCovered    *string  `json:"nhif_covered"`
	InsuranceCopay *float64 `json:"insurance_copay"`
	OutOfPocket    *float64 `json:"out_of_pocket"`
}

type UpdateCostRequest struct {
	Treatment      *string  `json:"treatment"`
	Cost           *float64 `json:"cost" binding:"omitempty,gte=0"`
	Notes          *string  `json:"notes"`
	Facility       *string  `json:"facility"`
	Region         *string  `json:"region"`
	Category       *string  `json:"category"`
	NHIFCovered    *string  `json:"nhif_covered"`
	InsuranceCopay *float64 `json:"insurance_copay"`
	OutOfPocket    *float64 `json:"out_of_pocket"`
}
