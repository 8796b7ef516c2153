package services

import (
	"context"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
)

// ExpenseSvcFacade exposes expense lifecycle operations.
//
// TriggerRecurrence is idempotent: calling it twice without the trigger due
// date advancing creates at most one new instance. When the rule's cap is
// reached it fails with apperrors.ErrRecurrenceExhausted, which callers treat
// as a normal terminal outcome.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error)
	GetExpenseByID(ctx context.Context, expenseID string, userID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, params dto.ListExpensesParams, userID string) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, userID string) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string, userID string) error

	MarkExpensePaid(ctx context.Context, expenseID string, req dto.MarkExpensePaidRequest, userID string) (*domain.Expense, error)
	TriggerRecurrence(ctx context.Context, expenseID string, userID string) (*domain.Expense, error)
}
