package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind records whether a payment settled the purchase in full.
type PaymentKind string

const (
	PaymentFull    PaymentKind = "FULL"
	PaymentPartial PaymentKind = "PARTIAL"
)

// Payment is the settlement of (part of) a purchase out of an account.
// Payments are append-only: once posted they are never mutated or deleted;
// a correction is a new compensating payment.
type Payment struct {
	PaymentID     string          `json:"paymentID"`  // Primary Key (UUID)
	PurchaseID    string          `json:"purchaseID"` // FK -> purchases.purchase_id (NON-NULL)
	AccountID     string          `json:"accountID"`  // Paying account
	PaymentDate   time.Time       `json:"paymentDate"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          PaymentKind     `json:"kind"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"` // Paying account balance snapshot
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`  // Always BalanceBefore - Amount
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}
