package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a marketplace-linked money account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID string `json:"accountID"` // Primary Key (UUID)
	Name      string `json:"name"`      // User-defined display name
	IsActive  bool   `json:"isActive"`  // Soft delete / status flag
	IsPrimary bool   `json:"isPrimary"` // At most one account may be primary at a time
	AuditFields
	Balance decimal.Decimal `json:"balance"` // Persisted balance: sum(entries) - sum(payments)
}
