package repositories

import (
	"context"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
)

// ExpenseFilter is the predicate set for listing expenses. A nil field means
// "no constraint"; Status filters on the effective (overdue-projected) status.
type ExpenseFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	AccountID *string
	Category  *string
	Status    *domain.ExpenseStatus
	Subtype   *domain.ExpenseSubtype
	Text      *string
	Limit     int
	Offset    int
}

// ExpenseRepositoryFacade defines persistence operations for expenses.
type ExpenseRepositoryFacade interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, expense domain.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// MarkExpensePaid transitions PENDING -> PAID and debits the paying account
	// in one transaction, locking both rows. Fails with ErrConflict if the
	// expense is no longer pending, or ErrInsufficientFunds from the debit.
	MarkExpensePaid(ctx context.Context, expenseID string, accountID string, paidDate time.Time, userID string, now time.Time) (*domain.Expense, *domain.BalanceHistoryRecord, error)

	// SaveGeneratedExpense inserts a recurrence-derived instance. The insert is
	// idempotent on (origin_id, due_date): a duplicate is silently skipped and
	// reported as inserted == false.
	SaveGeneratedExpense(ctx context.Context, expense domain.Expense) (inserted bool, err error)
	// ChainLength counts the instances in the origin chain ending at expenseID,
	// the root included.
	ChainLength(ctx context.Context, expenseID string) (int, error)
	// FindByOriginAndDueDate returns the generated instance for an origin and
	// due date, or ErrNotFound. The (origin_id, due_date) pair is unique.
	FindByOriginAndDueDate(ctx context.Context, originID string, dueDate time.Time) (*domain.Expense, error)
}
