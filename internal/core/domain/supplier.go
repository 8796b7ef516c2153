package domain

import (
	"github.com/shopspring/decimal"
)

// SupplierStatus marks whether a supplier is still in use.
type SupplierStatus string

const (
	SupplierActive   SupplierStatus = "ACTIVE"
	SupplierInactive SupplierStatus = "INACTIVE"
)

// Supplier is a party the business buys from. Its balance is normally computed
// from purchases minus payments; an administrator may pin a manual override,
// which then becomes authoritative until cleared.
type Supplier struct {
	SupplierID        string          `json:"supplierID"` // Primary Key (UUID)
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Status            SupplierStatus  `json:"status"`
	ManualBalanceSet  bool            `json:"manualBalanceSet"`
	ManualBalance     decimal.Decimal `json:"manualBalance"` // Meaningful only when ManualBalanceSet
	AuditFields
}
