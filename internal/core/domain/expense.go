package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseSubtype distinguishes one-off expenses from recurring ones.
type ExpenseSubtype string

const (
	Recurring ExpenseSubtype = "RECURRING"
	OneOff    ExpenseSubtype = "ONE_OFF"
)

// ExpenseStatus is the lifecycle state of an expense.
// OVERDUE is never stored: it is projected at read time from PENDING + due date.
type ExpenseStatus string

const (
	ExpensePending ExpenseStatus = "PENDING"
	ExpensePaid    ExpenseStatus = "PAID"
	ExpenseOverdue ExpenseStatus = "OVERDUE"
)

// RecurrencePeriod is the kind of interval between occurrences.
type RecurrencePeriod string

const (
	Monthly    RecurrencePeriod = "MONTHLY"
	Bimonthly  RecurrencePeriod = "BIMONTHLY"
	Quarterly  RecurrencePeriod = "QUARTERLY"
	Semiannual RecurrencePeriod = "SEMIANNUAL"
	Annual     RecurrencePeriod = "ANNUAL"
)

// Months returns the calendar-month width of the period, or 0 for an unknown kind.
func (p RecurrencePeriod) Months() int {
	switch p {
	case Monthly:
		return 1
	case Bimonthly:
		return 2
	case Quarterly:
		return 3
	case Semiannual:
		return 6
	case Annual:
		return 12
	}
	return 0
}

// RecurrenceRule describes how the next occurrence of an expense is derived.
// EndDate and OccurrenceCap are both optional; when both are set, whichever
// limit is reached first is authoritative.
type RecurrenceRule struct {
	Period        RecurrencePeriod `json:"period"`
	DayOfMonth    int              `json:"dayOfMonth"` // 1..31, clamped to the target month
	EndDate       *time.Time       `json:"endDate,omitempty"`
	OccurrenceCap *int             `json:"occurrenceCap,omitempty"`
}

// Expense is a scheduled or one-off debit obligation, optionally recurring.
type Expense struct {
	ExpenseID   string          `json:"expenseID"` // Primary Key (UUID)
	AccountID   string          `json:"accountID"` // FK -> accounts.account_id (NON-NULL)
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Subtype     ExpenseSubtype  `json:"subtype"`
	Status      ExpenseStatus   `json:"status"` // Stored as PENDING or PAID only
	DueDate     time.Time       `json:"dueDate"`
	PaidDate    *time.Time      `json:"paidDate,omitempty"`
	Recurrence  *RecurrenceRule `json:"recurrence,omitempty"`
	OriginID    *string         `json:"originID,omitempty"` // Back-reference to the instance this was generated from; strictly a forward chain
	AuditFields
}

// EffectiveStatus projects PENDING into OVERDUE when the due date has passed.
// The stored status is never changed by this; paid expenses are terminal.
func (e Expense) EffectiveStatus(today time.Time) ExpenseStatus {
	if e.Status == ExpensePending && e.DueDate.Before(truncateToDay(today)) {
		return ExpenseOverdue
	}
	return e.Status
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
