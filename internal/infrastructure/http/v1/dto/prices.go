package dto

import (
	"palletbook/internal/core/types"
	"palletbook/internal/domain/pricing"
)

// AddServicePriceRequest starts a new flat service rate.
type AddServicePriceRequest struct {
	ContractorID  string      `json:"contractorId" binding:"required"`
	ServiceID     string      `json:"serviceId" binding:"required"`
	EffectiveFrom types.Date  `json:"effectiveFrom"`
	PricePerUnit  types.Money `json:"pricePerUnit"`
}

// ToInput converts the request to a domain input.
func (r AddServicePriceRequest) ToInput(userID string) pricing.AddServicePriceInput {
	return pricing.AddServicePriceInput{
		ContractorID:  r.ContractorID,
		ServiceID:     r.ServiceID,
		EffectiveFrom: r.EffectiveFrom,
		PricePerUnit:  r.PricePerUnit,
		UserID:        userID,
	}
}

// AddPalletPriceRequest starts a new pallet-type rate.
type AddPalletPriceRequest struct {
	ContractorID  string      `json:"contractorId" binding:"required"`
	PalletTypeID  string      `json:"palletTypeId" binding:"required"`
	Direction     string      `json:"direction" binding:"required,oneof=in out"`
	EffectiveFrom types.Date  `json:"effectiveFrom"`
	PricePerUnit  types.Money `json:"pricePerUnit"`
}

// ToInput converts the request to a domain input.
func (r AddPalletPriceRequest) ToInput(userID string) pricing.AddPalletPriceInput {
	return pricing.AddPalletPriceInput{
		ContractorID:  r.ContractorID,
		PalletTypeID:  r.PalletTypeID,
		Direction:     pricing.Direction(r.Direction),
		EffectiveFrom: r.EffectiveFrom,
		PricePerUnit:  r.PricePerUnit,
		UserID:        userID,
	}
}

// UpdatePriceRequest edits an existing point; absent fields stay as they are.
type UpdatePriceRequest struct {
	EffectiveFrom *types.Date  `json:"effectiveFrom"`
	PricePerUnit  *types.Money `json:"pricePerUnit"`
}

// ToChanges converts the request to a domain change set.
func (r UpdatePriceRequest) ToChanges(userID string) pricing.Changes {
	return pricing.Changes{
		EffectiveFrom: r.EffectiveFrom,
		PricePerUnit:  r.PricePerUnit,
		UserID:        userID,
	}
}

// PriceHistoryResponse lists one price history and, when a date was asked
// for, the price in effect on it.
type PriceHistoryResponse struct {
	Key            string          `json:"key"`
	Date           *types.Date     `json:"date,omitempty"`
	EffectivePrice *types.Money    `json:"effectivePrice,omitempty"`
	History        []pricing.Entry `json:"history"`
}
