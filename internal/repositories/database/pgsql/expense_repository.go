package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/caixasimples/caixa_simples_app/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseRepository struct {
	BaseRepository
}

// newPgxExpenseRepository creates a new repository for expense data.
func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func toModelExpense(d domain.Expense) models.Expense {
	m := models.Expense{
		ExpenseID:   d.ExpenseID,
		AccountID:   d.AccountID,
		Category:    d.Category,
		Description: d.Description,
		Amount:      d.Amount,
		Subtype:     string(d.Subtype),
		Status:      string(d.Status),
		DueDate:     d.DueDate,
		PaidDate:    d.PaidDate,
		OriginID:    d.OriginID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.Recurrence != nil {
		period := string(d.Recurrence.Period)
		day := d.Recurrence.DayOfMonth
		m.RecurrencePeriod = &period
		m.RecurrenceDay = &day
		m.RecurrenceEnd = d.Recurrence.EndDate
		m.RecurrenceCap = d.Recurrence.OccurrenceCap
	}
	return m
}

func toDomainExpense(m models.Expense) domain.Expense {
	d := domain.Expense{
		ExpenseID:   m.ExpenseID,
		AccountID:   m.AccountID,
		Category:    m.Category,
		Description: m.Description,
		Amount:      m.Amount,
		Subtype:     domain.ExpenseSubtype(m.Subtype),
		Status:      domain.ExpenseStatus(m.Status),
		DueDate:     m.DueDate,
		PaidDate:    m.PaidDate,
		OriginID:    m.OriginID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.RecurrencePeriod != nil && m.RecurrenceDay != nil {
		d.Recurrence = &domain.RecurrenceRule{
			Period:        domain.RecurrencePeriod(*m.RecurrencePeriod),
			DayOfMonth:    *m.RecurrenceDay,
			EndDate:       m.RecurrenceEnd,
			OccurrenceCap: m.RecurrenceCap,
		}
	}
	return d
}

const selectExpenseColumns = `expense_id, account_id, category, description, amount, subtype, status, due_date, paid_date, recurrence_period, recurrence_day, recurrence_end, recurrence_cap, origin_id, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.AccountID,
		&m.Category,
		&m.Description,
		&m.Amount,
		&m.Subtype,
		&m.Status,
		&m.DueDate,
		&m.PaidDate,
		&m.RecurrencePeriod,
		&m.RecurrenceDay,
		&m.RecurrenceEnd,
		&m.RecurrenceCap,
		&m.OriginID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const insertExpenseQuery = `
	INSERT INTO expenses (expense_id, account_id, category, description, amount, subtype, status, due_date, paid_date, recurrence_period, recurrence_day, recurrence_end, recurrence_cap, origin_id, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

func expenseInsertArgs(m models.Expense) []any {
	return []any{
		m.ExpenseID,
		m.AccountID,
		m.Category,
		m.Description,
		m.Amount,
		m.Subtype,
		m.Status,
		m.DueDate,
		m.PaidDate,
		m.RecurrencePeriod,
		m.RecurrenceDay,
		m.RecurrenceEnd,
		m.RecurrenceCap,
		m.OriginID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := toModelExpense(expense)
	_, err := r.Pool.Exec(ctx, insertExpenseQuery+";", expenseInsertArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to save expense %s: %w", expense.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `
		SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE expense_id = $1;
	`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}
	d := toDomainExpense(m)
	return &d, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, filter portsrepo.ExpenseFilter) ([]domain.Expense, error) {
	query := `
		SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE 1=1`
	args := []any{}

	appendArg := func(clause string, value any) {
		args = append(args, value)
		query += " AND " + clause + "$" + strconv.Itoa(len(args))
	}

	if filter.DateFrom != nil {
		appendArg("due_date >= ", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		appendArg("due_date <= ", *filter.DateTo)
	}
	if filter.AccountID != nil {
		appendArg("account_id = ", *filter.AccountID)
	}
	if filter.Category != nil {
		appendArg("category = ", *filter.Category)
	}
	if filter.Subtype != nil {
		appendArg("subtype = ", string(*filter.Subtype))
	}
	if filter.Text != nil {
		appendArg("description ILIKE ", "%"+*filter.Text+"%")
	}
	if filter.Status != nil {
		// OVERDUE is a projection of PENDING past its due date, not a stored
		// value, so the filter translates accordingly.
		switch *filter.Status {
		case domain.ExpenseOverdue:
			args = append(args, string(domain.ExpensePending))
			query += " AND status = $" + strconv.Itoa(len(args)) + " AND due_date < CURRENT_DATE"
		case domain.ExpensePending:
			args = append(args, string(domain.ExpensePending))
			query += " AND status = $" + strconv.Itoa(len(args)) + " AND due_date >= CURRENT_DATE"
		default:
			appendArg("status = ", string(*filter.Status))
		}
	}

	args = append(args, filter.Limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPos := strconv.Itoa(len(args))
	query += " ORDER BY due_date ASC, created_at ASC LIMIT $" + limitPos + " OFFSET $" + offsetPos + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, toDomainExpense(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	m := toModelExpense(expense)
	query := `
		UPDATE expenses
		SET category = $2, description = $3, amount = $4, due_date = $5, recurrence_period = $6, recurrence_day = $7, recurrence_end = $8, recurrence_cap = $9, last_updated_at = $10, last_updated_by = $11
		WHERE expense_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ExpenseID,
		m.Category,
		m.Description,
		m.Amount,
		m.DueDate,
		m.RecurrencePeriod,
		m.RecurrenceDay,
		m.RecurrenceEnd,
		m.RecurrenceCap,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkExpensePaid transitions PENDING -> PAID and debits the paying account in
// one transaction. The expense row is locked first; a non-pending row fails
// with ErrConflict, a short account with ErrInsufficientFunds.
func (r *PgxExpenseRepository) MarkExpensePaid(ctx context.Context, expenseID string, accountID string, paidDate time.Time, userID string, now time.Time) (*domain.Expense, *domain.BalanceHistoryRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	selectQuery := `
		SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE expense_id = $1
		FOR UPDATE;
	`
	m, err := scanExpense(tx.QueryRow(ctx, selectQuery, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to lock expense %s: %w", expenseID, err)
	}
	if m.Status != string(domain.ExpensePending) {
		return nil, nil, fmt.Errorf("expense %s is %s: %w", expenseID, m.Status, apperrors.ErrConflict)
	}

	locked, err := lockAccountForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, nil, err
	}
	newBalance := locked.Balance.Sub(m.Amount)
	if newBalance.IsNegative() {
		return nil, nil, fmt.Errorf("paying expense %s would overdraw account %s: %w", expenseID, accountID, apperrors.ErrInsufficientFunds)
	}
	if err := applyBalanceInTx(ctx, tx, accountID, newBalance, userID, now); err != nil {
		return nil, nil, err
	}

	updateQuery := `
		UPDATE expenses
		SET status = $2, paid_date = $3, account_id = $4, last_updated_at = $5, last_updated_by = $6
		WHERE expense_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, expenseID, string(domain.ExpensePaid), paidDate, accountID, now, userID); err != nil {
		return nil, nil, fmt.Errorf("failed to mark expense %s paid: %w", expenseID, err)
	}

	record := domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    accountID,
		ValueBefore: locked.Balance,
		ValueAfter:  newBalance,
		Note:        "expense " + expenseID + " paid",
		RecordedAt:  now,
		RecordedBy:  userID,
	}
	if err := insertHistoryInTx(ctx, tx, record); err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	m.Status = string(domain.ExpensePaid)
	m.PaidDate = &paidDate
	m.AccountID = accountID
	m.LastUpdatedAt = now
	m.LastUpdatedBy = userID
	d := toDomainExpense(m)
	return &d, &record, nil
}

// SaveGeneratedExpense inserts a recurrence-derived instance. The unique index
// on (origin_id, due_date) makes the insert idempotent: a duplicate trigger is
// swallowed by ON CONFLICT DO NOTHING and reported as inserted == false.
func (r *PgxExpenseRepository) SaveGeneratedExpense(ctx context.Context, expense domain.Expense) (bool, error) {
	m := toModelExpense(expense)
	query := insertExpenseQuery + `
	ON CONFLICT (origin_id, due_date) DO NOTHING;`
	tag, err := r.Pool.Exec(ctx, query, expenseInsertArgs(m)...)
	if err != nil {
		return false, fmt.Errorf("failed to save generated expense %s: %w", expense.ExpenseID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ChainLength walks origin_id back to the chain root and counts the instances
// seen, the root included.
func (r *PgxExpenseRepository) ChainLength(ctx context.Context, expenseID string) (int, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT expense_id, origin_id
			FROM expenses
			WHERE expense_id = $1
			UNION ALL
			SELECT e.expense_id, e.origin_id
			FROM expenses e
			JOIN chain c ON e.expense_id = c.origin_id
		)
		SELECT COUNT(*) FROM chain;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, expenseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recurrence chain for %s: %w", expenseID, err)
	}
	if count == 0 {
		return 0, apperrors.ErrNotFound
	}
	return count, nil
}

func (r *PgxExpenseRepository) FindByOriginAndDueDate(ctx context.Context, originID string, dueDate time.Time) (*domain.Expense, error) {
	query := `
		SELECT ` + selectExpenseColumns + `
		FROM expenses
		WHERE origin_id = $1 AND due_date = $2;
	`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, originID, dueDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find generated expense for origin %s: %w", originID, err)
	}
	d := toDomainExpense(m)
	return &d, nil
}
