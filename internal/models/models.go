// Package models holds the persistence-layer representations of the domain
// entities. Repositories convert between these and the domain structs.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields mirror domain.AuditFields at the storage layer.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

type Account struct {
	AccountID string `db:"account_id"`
	Name      string `db:"name"`
	IsActive  bool   `db:"is_active"`
	IsPrimary bool   `db:"is_primary"`
	AuditFields
	Balance decimal.Decimal `db:"balance"`
}

type Marketplace struct {
	MarketplaceID string `db:"marketplace_id"`
	Name          string `db:"name"`
	IsActive      bool   `db:"is_active"`
}

type Entry struct {
	EntryID        string          `db:"entry_id"`
	AccountID      string          `db:"account_id"`
	MarketplaceID  string          `db:"marketplace_id"`
	Amount         decimal.Decimal `db:"amount"`
	EntryDate      time.Time       `db:"entry_date"`
	CommissionPaid bool            `db:"commission_paid"`
	Notes          string          `db:"notes"`
	AuditFields
}

type Expense struct {
	ExpenseID        string          `db:"expense_id"`
	AccountID        string          `db:"account_id"`
	Category         string          `db:"category"`
	Description      string          `db:"description"`
	Amount           decimal.Decimal `db:"amount"`
	Subtype          string          `db:"subtype"`
	Status           string          `db:"status"`
	DueDate          time.Time       `db:"due_date"`
	PaidDate         *time.Time      `db:"paid_date"`
	RecurrencePeriod *string         `db:"recurrence_period"`
	RecurrenceDay    *int            `db:"recurrence_day"`
	RecurrenceEnd    *time.Time      `db:"recurrence_end"`
	RecurrenceCap    *int            `db:"recurrence_cap"`
	OriginID         *string         `db:"origin_id"`
	AuditFields
}

type Supplier struct {
	SupplierID       string          `db:"supplier_id"`
	Name             string          `db:"name"`
	Category         string          `db:"category"`
	Status           string          `db:"status"`
	ManualBalanceSet bool            `db:"manual_balance_set"`
	ManualBalance    decimal.Decimal `db:"manual_balance"`
	AuditFields
}

type Purchase struct {
	PurchaseID   string          `db:"purchase_id"`
	SupplierID   string          `db:"supplier_id"`
	PurchaseDate time.Time       `db:"purchase_date"`
	Description  string          `db:"description"`
	Category     string          `db:"category"`
	TotalAmount  decimal.Decimal `db:"total_amount"`
	Mode         string          `db:"mode"`
	DueDate      *time.Time      `db:"due_date"`
	Status       string          `db:"status"`
	AuditFields
}

type Payment struct {
	PaymentID     string          `db:"payment_id"`
	PurchaseID    string          `db:"purchase_id"`
	AccountID     string          `db:"account_id"`
	PaymentDate   time.Time       `db:"payment_date"`
	Amount        decimal.Decimal `db:"amount"`
	Kind          string          `db:"kind"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Notes         string          `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}

type BalanceHistoryRecord struct {
	RecordID    string          `db:"record_id"`
	EntityID    string          `db:"entity_id"`
	ValueBefore decimal.Decimal `db:"value_before"`
	ValueAfter  decimal.Decimal `db:"value_after"`
	Note        string          `db:"note"`
	RecordedAt  time.Time       `db:"recorded_at"`
	RecordedBy  string          `db:"recorded_by"`
}

type User struct {
	UserID       string `db:"user_id"`
	Name         string `db:"name"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
