package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
	"github.com/caixasimples/caixa_simples_app/internal/utils/recurrence"
	"github.com/google/uuid"
)

// expenseServiceImpl implements the ExpenseSvcFacade interface
type expenseServiceImpl struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade

	// now is swappable so recurrence checks can be exercised at fixed dates.
	now func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.ExpenseSvcFacade {
	return &expenseServiceImpl{
		expenseRepo: expenseRepo,
		accountRepo: accountRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseServiceImpl)(nil)

func (s *expenseServiceImpl) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, userID string) (*domain.Expense, error) {
	amount, err := moneybr.Parse(req.Amount)
	if err != nil {
		s.LogError(ctx, err, "Invalid expense amount", slog.String("amount", req.Amount))
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("expense amount must be positive: %w", apperrors.ErrValidation)
	}

	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	subtype := domain.ExpenseSubtype(req.Subtype)
	rule, err := req.Recurrence.ToDomainRecurrence()
	if err != nil {
		return nil, err
	}
	if subtype == domain.Recurring && rule == nil {
		return nil, fmt.Errorf("recurring expense requires a recurrence rule: %w", apperrors.ErrValidation)
	}
	if subtype == domain.OneOff && rule != nil {
		return nil, fmt.Errorf("one-off expense cannot carry a recurrence rule: %w", apperrors.ErrValidation)
	}
	if rule != nil {
		if err := s.validateRule(rule, dueDate); err != nil {
			return nil, err
		}
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find account for expense",
			slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("invalid account: %w", err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("account is inactive: %w", apperrors.ErrValidation)
	}

	now := s.now()
	expense := domain.Expense{
		ExpenseID:   uuid.NewString(),
		AccountID:   req.AccountID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      amount,
		Subtype:     subtype,
		Status:      domain.ExpensePending,
		DueDate:     dueDate,
		Recurrence:  rule,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense",
			slog.String("expense_id", expense.ExpenseID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense created successfully",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("subtype", string(expense.Subtype)))
	return &expense, nil
}

func (s *expenseServiceImpl) validateRule(rule *domain.RecurrenceRule, dueDate time.Time) error {
	if rule.Period.Months() == 0 {
		return fmt.Errorf("unknown recurrence period %q: %w", rule.Period, apperrors.ErrValidation)
	}
	if rule.DayOfMonth < 1 || rule.DayOfMonth > 31 {
		return fmt.Errorf("recurrence day of month out of range: %w", apperrors.ErrValidation)
	}
	if rule.EndDate != nil && rule.EndDate.Before(dueDate) {
		return fmt.Errorf("recurrence end date precedes the due date: %w", apperrors.ErrValidation)
	}
	if rule.OccurrenceCap != nil && *rule.OccurrenceCap < 1 {
		return fmt.Errorf("recurrence cap must be at least 1: %w", apperrors.ErrValidation)
	}
	return nil
}

func (s *expenseServiceImpl) GetExpenseByID(ctx context.Context, expenseID string, userID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find expense by ID",
				slog.String("expense_id", expenseID))
		}
		return nil, err
	}
	return expense, nil
}

func (s *expenseServiceImpl) ListExpenses(ctx context.Context, params dto.ListExpensesParams, userID string) ([]domain.Expense, error) {
	filter := portsrepo.ExpenseFilter{
		AccountID: params.AccountID,
		Category:  params.Category,
		Text:      params.Text,
		Limit:     params.Limit,
		Offset:    params.Offset,
	}
	if params.DateFrom != nil {
		from, err := dto.ParseDate(*params.DateFrom)
		if err != nil {
			return nil, err
		}
		filter.DateFrom = &from
	}
	if params.DateTo != nil {
		to, err := dto.ParseDate(*params.DateTo)
		if err != nil {
			return nil, err
		}
		filter.DateTo = &to
	}
	if params.Status != nil {
		status := domain.ExpenseStatus(*params.Status)
		filter.Status = &status
	}
	if params.Subtype != nil {
		subtype := domain.ExpenseSubtype(*params.Subtype)
		filter.Subtype = &subtype
	}

	expenses, err := s.expenseRepo.ListExpenses(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses")
		return nil, err
	}
	if expenses == nil {
		return []domain.Expense{}, nil
	}
	return expenses, nil
}

func (s *expenseServiceImpl) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, userID string) (*domain.Expense, error) {
	expense, err := s.GetExpenseByID(ctx, expenseID, userID)
	if err != nil {
		return nil, err
	}
	if expense.CreatedBy != userID {
		err := fmt.Errorf("expense belongs to another user: %w", apperrors.ErrForbidden)
		s.LogError(ctx, err, "Rejected expense update by non-owner",
			slog.String("expense_id", expenseID),
			slog.String("user_id", userID))
		return nil, err
	}
	if expense.Status == domain.ExpensePaid {
		err := fmt.Errorf("paid expense is immutable: %w", apperrors.ErrConflict)
		s.LogError(ctx, err, "Rejected update of paid expense",
			slog.String("expense_id", expenseID))
		return nil, err
	}

	updated := false
	if req.Category != nil {
		expense.Category = *req.Category
		updated = true
	}
	if req.Description != nil {
		expense.Description = *req.Description
		updated = true
	}
	if req.Amount != nil {
		amount, err := moneybr.Parse(*req.Amount)
		if err != nil {
			return nil, err
		}
		if !amount.IsPositive() {
			return nil, fmt.Errorf("expense amount must be positive: %w", apperrors.ErrValidation)
		}
		expense.Amount = amount
		updated = true
	}
	if req.DueDate != nil {
		dueDate, err := dto.ParseDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		expense.DueDate = dueDate
		updated = true
	}
	if req.Recurrence != nil {
		if expense.Subtype != domain.Recurring {
			return nil, fmt.Errorf("one-off expense cannot carry a recurrence rule: %w", apperrors.ErrValidation)
		}
		rule, err := req.Recurrence.ToDomainRecurrence()
		if err != nil {
			return nil, err
		}
		if err := s.validateRule(rule, expense.DueDate); err != nil {
			return nil, err
		}
		expense.Recurrence = rule
		updated = true
	}
	if !updated {
		return expense, nil
	}

	now := s.now()
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = userID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		s.LogError(ctx, err, "Failed to update expense",
			slog.String("expense_id", expenseID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense updated successfully",
		slog.String("expense_id", expenseID))
	return expense, nil
}

func (s *expenseServiceImpl) DeleteExpense(ctx context.Context, expenseID string, userID string) error {
	expense, err := s.GetExpenseByID(ctx, expenseID, userID)
	if err != nil {
		return err
	}
	if expense.CreatedBy != userID {
		err := fmt.Errorf("expense belongs to another user: %w", apperrors.ErrForbidden)
		s.LogError(ctx, err, "Rejected expense delete by non-owner",
			slog.String("expense_id", expenseID),
			slog.String("user_id", userID))
		return err
	}
	if expense.Status == domain.ExpensePaid {
		err := fmt.Errorf("paid expense cannot be deleted: %w", apperrors.ErrConflict)
		s.LogError(ctx, err, "Rejected delete of paid expense",
			slog.String("expense_id", expenseID))
		return err
	}

	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		s.LogError(ctx, err, "Failed to delete expense",
			slog.String("expense_id", expenseID))
		return err
	}

	s.LogInfo(ctx, "Expense deleted successfully",
		slog.String("expense_id", expenseID))
	return nil
}

func (s *expenseServiceImpl) MarkExpensePaid(ctx context.Context, expenseID string, req dto.MarkExpensePaidRequest, userID string) (*domain.Expense, error) {
	paidDate, err := dto.ParseDate(req.PaidDate)
	if err != nil {
		return nil, err
	}

	expense, err := s.GetExpenseByID(ctx, expenseID, userID)
	if err != nil {
		return nil, err
	}
	if expense.CreatedBy != userID {
		err := fmt.Errorf("expense belongs to another user: %w", apperrors.ErrForbidden)
		s.LogError(ctx, err, "Rejected expense payment by non-owner",
			slog.String("expense_id", expenseID),
			slog.String("user_id", userID))
		return nil, err
	}
	if expense.Status == domain.ExpensePaid {
		return nil, fmt.Errorf("expense already paid: %w", apperrors.ErrConflict)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find paying account",
			slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("invalid account: %w", err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("account is inactive: %w", apperrors.ErrValidation)
	}

	now := s.now()
	paid, _, err := s.expenseRepo.MarkExpensePaid(ctx, expenseID, req.AccountID, paidDate, userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to mark expense paid",
			slog.String("expense_id", expenseID),
			slog.String("account_id", req.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense marked paid",
		slog.String("expense_id", expenseID),
		slog.String("account_id", req.AccountID))
	return paid, nil
}

// TriggerRecurrence derives the next instance of a recurring expense. The
// insert is idempotent on (origin, due date), so firing the trigger twice for
// the same period returns the already existing instance instead of a second
// row. When the rule's end date or occurrence cap is reached it fails with
// apperrors.ErrRecurrenceExhausted.
func (s *expenseServiceImpl) TriggerRecurrence(ctx context.Context, expenseID string, userID string) (*domain.Expense, error) {
	origin, err := s.GetExpenseByID(ctx, expenseID, userID)
	if err != nil {
		return nil, err
	}
	if origin.CreatedBy != userID {
		err := fmt.Errorf("expense belongs to another user: %w", apperrors.ErrForbidden)
		s.LogError(ctx, err, "Rejected recurrence trigger by non-owner",
			slog.String("expense_id", expenseID),
			slog.String("user_id", userID))
		return nil, err
	}
	if origin.Subtype != domain.Recurring || origin.Recurrence == nil {
		return nil, fmt.Errorf("expense is not recurring: %w", apperrors.ErrValidation)
	}

	today := s.now()
	if !recurrence.Due(origin.DueDate, today) {
		return nil, fmt.Errorf("origin due date not reached: %w", apperrors.ErrValidation)
	}

	rule := *origin.Recurrence
	nextDue := recurrence.NextDueDate(rule, origin.DueDate)

	chainLen, err := s.expenseRepo.ChainLength(ctx, expenseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count recurrence chain",
			slog.String("expense_id", expenseID))
		return nil, err
	}
	if recurrence.Exhausted(rule, nextDue, chainLen) {
		s.LogInfo(ctx, "Recurrence rule exhausted",
			slog.String("expense_id", expenseID),
			slog.Int("chain_length", chainLen))
		return nil, apperrors.ErrRecurrenceExhausted
	}

	now := s.now()
	originID := origin.ExpenseID
	next := domain.Expense{
		ExpenseID:   uuid.NewString(),
		AccountID:   origin.AccountID,
		Category:    origin.Category,
		Description: origin.Description,
		Amount:      origin.Amount,
		Subtype:     domain.Recurring,
		Status:      domain.ExpensePending,
		DueDate:     nextDue,
		Recurrence:  &rule,
		OriginID:    &originID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	inserted, err := s.expenseRepo.SaveGeneratedExpense(ctx, next)
	if err != nil {
		s.LogError(ctx, err, "Failed to save generated expense",
			slog.String("origin_id", expenseID))
		return nil, err
	}
	if !inserted {
		// A concurrent or repeated trigger won the race; surface its instance.
		s.LogDebug(ctx, "Recurrence instance already exists",
			slog.String("origin_id", expenseID),
			slog.Time("due_date", nextDue))
		existing, err := s.expenseRepo.FindByOriginAndDueDate(ctx, expenseID, nextDue)
		if err != nil {
			s.LogError(ctx, err, "Failed to load existing recurrence instance",
				slog.String("origin_id", expenseID))
			return nil, err
		}
		return existing, nil
	}

	s.LogInfo(ctx, "Recurrence instance generated",
		slog.String("origin_id", expenseID),
		slog.String("expense_id", next.ExpenseID),
		slog.Time("due_date", nextDue))
	return &next, nil
}
