package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashflowSummary aggregates money movement over a period.
type CashflowSummary struct {
	From                  time.Time       `json:"from"`
	To                    time.Time       `json:"to"`
	EntriesTotal          decimal.Decimal `json:"entriesTotal"`          // money received from marketplaces
	ExpensesPaidTotal     decimal.Decimal `json:"expensesPaidTotal"`     // expenses marked paid in the period
	SupplierPaymentsTotal decimal.Decimal `json:"supplierPaymentsTotal"` // payments applied to purchases
	NetMovement           decimal.Decimal `json:"netMovement"`           // entries - expenses - payments
}
