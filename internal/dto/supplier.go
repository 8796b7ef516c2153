package dto

import (
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
	"github.com/shopspring/decimal"
)

// CreateSupplierRequest defines the data needed to register a supplier.
type CreateSupplierRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

// UpdateSupplierRequest enumerates the mutable supplier fields.
type UpdateSupplierRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Status   *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

// AdjustSupplierBalanceRequest sets a manual balance override.
type AdjustSupplierBalanceRequest struct {
	NewValue string `json:"newValue" binding:"required,moneybr"`
	Note     string `json:"note" binding:"required"`
}

// ClearSupplierOverrideRequest reverts to the computed balance.
type ClearSupplierOverrideRequest struct {
	Note string `json:"note"`
}

// SupplierResponse defines the data returned for a supplier.
type SupplierResponse struct {
	SupplierID       string    `json:"supplierID"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Status           string    `json:"status"`
	ManualBalanceSet bool      `json:"manualBalanceSet"`
	ManualBalance    *string   `json:"manualBalance,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatedBy        string    `json:"createdBy"`
	LastUpdatedAt    time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy    string    `json:"lastUpdatedBy"`
}

// SupplierBalanceResponse is the effective balance of a supplier.
type SupplierBalanceResponse struct {
	SupplierID     string `json:"supplierID"`
	Balance        string `json:"balance"`
	ManualOverride bool   `json:"manualOverride"`
}

// ListSuppliersParams defines query parameters for listing suppliers.
type ListSuppliersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ToSupplierResponse converts a domain.Supplier.
func ToSupplierResponse(s *domain.Supplier) SupplierResponse {
	resp := SupplierResponse{
		SupplierID:       s.SupplierID,
		Name:             s.Name,
		Category:         s.Category,
		Status:           string(s.Status),
		ManualBalanceSet: s.ManualBalanceSet,
		CreatedAt:        s.CreatedAt,
		CreatedBy:        s.CreatedBy,
		LastUpdatedAt:    s.LastUpdatedAt,
		LastUpdatedBy:    s.LastUpdatedBy,
	}
	if s.ManualBalanceSet {
		v := moneybr.Format(s.ManualBalance)
		resp.ManualBalance = &v
	}
	return resp
}

// ToSupplierResponses converts a slice of suppliers.
func ToSupplierResponses(suppliers []domain.Supplier) []SupplierResponse {
	res := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		res[i] = ToSupplierResponse(&suppliers[i])
	}
	return res
}

// ToSupplierBalanceResponse builds the effective balance payload.
func ToSupplierBalanceResponse(supplierID string, balance decimal.Decimal, overridden bool) SupplierBalanceResponse {
	return SupplierBalanceResponse{
		SupplierID:     supplierID,
		Balance:        moneybr.Format(balance),
		ManualOverride: overridden,
	}
}
