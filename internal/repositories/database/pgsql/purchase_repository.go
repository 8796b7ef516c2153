package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/caixasimples/caixa_simples_app/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPurchaseRepository struct {
	BaseRepository
}

// newPgxPurchaseRepository creates a new repository for purchases and payments.
func newPgxPurchaseRepository(pool *pgxpool.Pool) portsrepo.PurchaseRepositoryFacade {
	return &PgxPurchaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PurchaseRepositoryFacade = (*PgxPurchaseRepository)(nil)

func toDomainPurchase(m models.Purchase) domain.Purchase {
	return domain.Purchase{
		PurchaseID:   m.PurchaseID,
		SupplierID:   m.SupplierID,
		PurchaseDate: m.PurchaseDate,
		Description:  m.Description,
		Category:     m.Category,
		TotalAmount:  m.TotalAmount,
		Mode:         domain.PaymentMode(m.Mode),
		DueDate:      m.DueDate,
		Status:       domain.PurchaseStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const selectPurchaseColumns = `purchase_id, supplier_id, purchase_date, description, category, total_amount, mode, due_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanPurchase(row pgx.Row) (models.Purchase, error) {
	var m models.Purchase
	err := row.Scan(
		&m.PurchaseID,
		&m.SupplierID,
		&m.PurchaseDate,
		&m.Description,
		&m.Category,
		&m.TotalAmount,
		&m.Mode,
		&m.DueDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const selectPaymentColumns = `payment_id, purchase_id, account_id, payment_date, amount, kind, balance_before, balance_after, notes, created_at, created_by`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.PurchaseID,
		&m.AccountID,
		&m.PaymentDate,
		&m.Amount,
		&m.Kind,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

func toDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		PurchaseID:    m.PurchaseID,
		AccountID:     m.AccountID,
		PaymentDate:   m.PaymentDate,
		Amount:        m.Amount,
		Kind:          domain.PaymentKind(m.Kind),
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

func (r *PgxPurchaseRepository) SavePurchase(ctx context.Context, purchase domain.Purchase) error {
	query := `
		INSERT INTO purchases (purchase_id, supplier_id, purchase_date, description, category, total_amount, mode, due_date, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		purchase.PurchaseID,
		purchase.SupplierID,
		purchase.PurchaseDate,
		purchase.Description,
		purchase.Category,
		purchase.TotalAmount,
		string(purchase.Mode),
		purchase.DueDate,
		string(purchase.Status),
		purchase.CreatedAt,
		purchase.CreatedBy,
		purchase.LastUpdatedAt,
		purchase.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save purchase %s: %w", purchase.PurchaseID, err)
	}
	return nil
}

func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	query := `
		SELECT ` + selectPurchaseColumns + `
		FROM purchases
		WHERE purchase_id = $1;
	`
	m, err := scanPurchase(r.Pool.QueryRow(ctx, query, purchaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase by ID %s: %w", purchaseID, err)
	}
	d := toDomainPurchase(m)
	return &d, nil
}

func (r *PgxPurchaseRepository) ListPurchases(ctx context.Context, supplierID *string, status *domain.PurchaseStatus, limit int, offset int) ([]domain.Purchase, error) {
	query := `
		SELECT ` + selectPurchaseColumns + `
		FROM purchases
		WHERE 1=1`
	args := []any{}

	if supplierID != nil {
		args = append(args, *supplierID)
		query += " AND supplier_id = $" + strconv.Itoa(len(args))
	}
	if status != nil {
		args = append(args, string(*status))
		query += " AND status = $" + strconv.Itoa(len(args))
	}

	args = append(args, limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, offset)
	offsetPos := strconv.Itoa(len(args))
	query += " ORDER BY purchase_date DESC, created_at DESC LIMIT $" + limitPos + " OFFSET $" + offsetPos + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		m, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, toDomainPurchase(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}
	return purchases, nil
}

// DeletePurchase removes the purchase row. Payment rows are append-only and
// survive; payments.purchase_id has no FK so the reference simply dangles.
func (r *PgxPurchaseRepository) DeletePurchase(ctx context.Context, purchaseID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM purchases WHERE purchase_id = $1;`, purchaseID)
	if err != nil {
		return fmt.Errorf("failed to delete purchase %s: %w", purchaseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPurchaseRepository) SumPayments(ctx context.Context, purchaseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE purchase_id = $1;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, purchaseID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments for purchase %s: %w", purchaseID, err)
	}
	return sum, nil
}

func (r *PgxPurchaseRepository) ListPayments(ctx context.Context, purchaseID string) ([]domain.Payment, error) {
	query := `
		SELECT ` + selectPaymentColumns + `
		FROM payments
		WHERE purchase_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for purchase %s: %w", purchaseID, err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, toDomainPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

// ApplyPayment is the reconciliation unit. Inside one transaction it locks the
// purchase and the paying account, re-derives the open balance from the
// payment rows, rejects settled, overpaying and underfunded requests, then
// debits the account, inserts the payment with its balance snapshot,
// recomputes the cached purchase status and appends the audit record. Either
// every effect lands or none does; concurrent calls serialize on the purchase
// row lock.
func (r *PgxPurchaseRepository) ApplyPayment(ctx context.Context, params portsrepo.ApplyPaymentParams) (*domain.Payment, domain.PurchaseStatus, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, "", err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT ` + selectPurchaseColumns + `
		FROM purchases
		WHERE purchase_id = $1
		FOR UPDATE;
	`
	purchase, err := scanPurchase(tx.QueryRow(ctx, lockQuery, params.PurchaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to lock purchase %s: %w", params.PurchaseID, err)
	}

	var paid decimal.Decimal
	sumQuery := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE purchase_id = $1;`
	if err := tx.QueryRow(ctx, sumQuery, params.PurchaseID).Scan(&paid); err != nil {
		return nil, "", fmt.Errorf("failed to sum payments for purchase %s: %w", params.PurchaseID, err)
	}

	open := domain.OpenBalance(purchase.TotalAmount, paid)
	if !open.IsPositive() {
		return nil, "", fmt.Errorf("purchase %s: %w", params.PurchaseID, apperrors.ErrAlreadySettled)
	}
	if params.Amount.GreaterThan(open) {
		return nil, "", fmt.Errorf("payment of %s against open balance %s: %w",
			params.Amount.StringFixed(2), open.StringFixed(2), apperrors.ErrOverpayment)
	}

	account, err := lockAccountForUpdate(ctx, tx, params.AccountID)
	if err != nil {
		return nil, "", err
	}
	newBalance := account.Balance.Sub(params.Amount)
	if newBalance.IsNegative() {
		return nil, "", fmt.Errorf("payment would overdraw account %s: %w", params.AccountID, apperrors.ErrInsufficientFunds)
	}
	if err := applyBalanceInTx(ctx, tx, params.AccountID, newBalance, params.UserID, params.Now); err != nil {
		return nil, "", err
	}

	kind := domain.PaymentPartial
	if params.Amount.Equal(open) {
		kind = domain.PaymentFull
	}

	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		PurchaseID:    params.PurchaseID,
		AccountID:     params.AccountID,
		PaymentDate:   params.PaymentDate,
		Amount:        params.Amount,
		Kind:          kind,
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		Notes:         params.Note,
		CreatedAt:     params.Now,
		CreatedBy:     params.UserID,
	}
	insertQuery := `
		INSERT INTO payments (` + selectPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		payment.PaymentID,
		payment.PurchaseID,
		payment.AccountID,
		payment.PaymentDate,
		payment.Amount,
		string(payment.Kind),
		payment.BalanceBefore,
		payment.BalanceAfter,
		payment.Notes,
		payment.CreatedAt,
		payment.CreatedBy,
	); err != nil {
		return nil, "", fmt.Errorf("failed to insert payment for purchase %s: %w", params.PurchaseID, err)
	}

	newStatus := domain.StatusFor(purchase.TotalAmount, paid.Add(params.Amount))
	statusQuery := `
		UPDATE purchases
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE purchase_id = $1;
	`
	if _, err := tx.Exec(ctx, statusQuery, params.PurchaseID, string(newStatus), params.Now, params.UserID); err != nil {
		return nil, "", fmt.Errorf("failed to update status of purchase %s: %w", params.PurchaseID, err)
	}

	record := domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    params.AccountID,
		ValueBefore: account.Balance,
		ValueAfter:  newBalance,
		Note:        "payment " + payment.PaymentID + " on purchase " + params.PurchaseID,
		RecordedAt:  params.Now,
		RecordedBy:  params.UserID,
	}
	if err := insertHistoryInTx(ctx, tx, record); err != nil {
		return nil, "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, "", err
	}
	return &payment, newStatus, nil
}
