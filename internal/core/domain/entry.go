package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a credit of money received into an account from a marketplace.
type Entry struct {
	EntryID        string          `json:"entryID"`       // Primary Key (UUID)
	AccountID      string          `json:"accountID"`     // FK -> accounts.account_id (NON-NULL)
	MarketplaceID  string          `json:"marketplaceID"` // FK -> marketplaces.marketplace_id (NON-NULL)
	Amount         decimal.Decimal `json:"amount"`        // Always > 0
	EntryDate      time.Time       `json:"entryDate"`     // Posting date
	CommissionPaid bool            `json:"commissionPaid"`
	Notes          string          `json:"notes"` // Free text, nullable
	AuditFields
}

// Marketplace is a reference row identifying the source of an Entry.
type Marketplace struct {
	MarketplaceID string `json:"marketplaceID"`
	Name          string `json:"name"`
	IsActive      bool   `json:"isActive"`
}
