package dto

import (
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
)

// CreateEntryRequest defines the data needed to record money received from a
// marketplace. Amount is a MoneyAmount string, never floating point.
type CreateEntryRequest struct {
	AccountID      string `json:"accountID" binding:"required"`
	MarketplaceID  string `json:"marketplaceID" binding:"required"`
	Amount         string `json:"amount" binding:"required,moneybr"`
	EntryDate      string `json:"entryDate" binding:"required,datetime=2006-01-02"`
	CommissionPaid bool   `json:"commissionPaid"`
	Notes          string `json:"notes"`
}

// UpdateEntryRequest enumerates the mutable fields of an entry. Unknown keys
// are rejected at the boundary; absent fields stay untouched.
type UpdateEntryRequest struct {
	Amount         *string `json:"amount" binding:"omitempty,moneybr"`
	EntryDate      *string `json:"entryDate" binding:"omitempty,datetime=2006-01-02"`
	CommissionPaid *bool   `json:"commissionPaid"`
	Notes          *string `json:"notes"`
}

// ListEntriesParams defines the optional filter set for listing entries.
type ListEntriesParams struct {
	DateFrom      *string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo        *string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	AccountID     *string `form:"accountID"`
	MarketplaceID *string `form:"marketplaceID"`
	AmountMin     *string `form:"amountMin" binding:"omitempty,moneybr"`
	AmountMax     *string `form:"amountMax" binding:"omitempty,moneybr"`
	Text          *string `form:"text"`
	Limit         int     `form:"limit,default=20"`
	Offset        int     `form:"offset,default=0"`
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	EntryID        string    `json:"entryID"`
	AccountID      string    `json:"accountID"`
	MarketplaceID  string    `json:"marketplaceID"`
	Amount         string    `json:"amount"`
	EntryDate      string    `json:"entryDate"`
	CommissionPaid bool      `json:"commissionPaid"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

// ToEntryResponse converts a domain.Entry to its boundary form.
func ToEntryResponse(e *domain.Entry) EntryResponse {
	return EntryResponse{
		EntryID:        e.EntryID,
		AccountID:      e.AccountID,
		MarketplaceID:  e.MarketplaceID,
		Amount:         moneybr.Format(e.Amount),
		EntryDate:      FormatDate(e.EntryDate),
		CommissionPaid: e.CommissionPaid,
		Notes:          e.Notes,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
		LastUpdatedAt:  e.LastUpdatedAt,
		LastUpdatedBy:  e.LastUpdatedBy,
	}
}

// ToEntryResponses converts a slice of entries.
func ToEntryResponses(entries []domain.Entry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i := range entries {
		res[i] = ToEntryResponse(&entries[i])
	}
	return res
}

// CreateMarketplaceRequest defines the data needed to register a marketplace.
type CreateMarketplaceRequest struct {
	Name string `json:"name" binding:"required"`
}

// MarketplaceResponse defines the data returned for a marketplace.
type MarketplaceResponse struct {
	MarketplaceID string `json:"marketplaceID"`
	Name          string `json:"name"`
	IsActive      bool   `json:"isActive"`
}

// ToMarketplaceResponse converts a domain.Marketplace.
func ToMarketplaceResponse(m *domain.Marketplace) MarketplaceResponse {
	return MarketplaceResponse{MarketplaceID: m.MarketplaceID, Name: m.Name, IsActive: m.IsActive}
}
