package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is how a purchase was agreed to be paid.
type PaymentMode string

const (
	PaymentCash   PaymentMode = "CASH"
	PaymentCredit PaymentMode = "CREDIT"
)

// PurchaseStatus is a pure function of sum(payments) vs total; it is stored
// only as a cached projection and recomputed on every payment write.
type PurchaseStatus string

const (
	PurchaseOpen    PurchaseStatus = "OPEN"
	PurchasePartial PurchaseStatus = "PARTIAL"
	PurchaseSettled PurchaseStatus = "SETTLED"
)

// Purchase is a supplier-facing debt created by buying goods or services,
// settled via one or more Payments.
type Purchase struct {
	PurchaseID  string          `json:"purchaseID"` // Primary Key (UUID)
	SupplierID  string          `json:"supplierID"` // FK -> suppliers.supplier_id (NON-NULL)
	PurchaseDate time.Time      `json:"purchaseDate"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Mode        PaymentMode     `json:"mode"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Status      PurchaseStatus  `json:"status"`
	AuditFields
}

// StatusFor derives the purchase status from its total and the amount paid so
// far. This is the single source of truth for the open/partial/settled rule.
func StatusFor(total, paid decimal.Decimal) PurchaseStatus {
	switch {
	case paid.IsZero():
		return PurchaseOpen
	case paid.GreaterThanOrEqual(total):
		return PurchaseSettled
	default:
		return PurchasePartial
	}
}

// OpenBalance is total minus paid, the amount still owed on a purchase.
func OpenBalance(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}
