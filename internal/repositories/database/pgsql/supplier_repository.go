package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/caixasimples/caixa_simples_app/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxSupplierRepository struct {
	BaseRepository
}

// newPgxSupplierRepository creates a new repository for supplier data.
func newPgxSupplierRepository(pool *pgxpool.Pool) portsrepo.SupplierRepositoryFacade {
	return &PgxSupplierRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SupplierRepositoryFacade = (*PgxSupplierRepository)(nil)

func toDomainSupplier(m models.Supplier) domain.Supplier {
	return domain.Supplier{
		SupplierID:       m.SupplierID,
		Name:             m.Name,
		Category:         m.Category,
		Status:           domain.SupplierStatus(m.Status),
		ManualBalanceSet: m.ManualBalanceSet,
		ManualBalance:    m.ManualBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const selectSupplierColumns = `supplier_id, name, category, status, manual_balance_set, manual_balance, created_at, created_by, last_updated_at, last_updated_by`

func scanSupplier(row pgx.Row) (models.Supplier, error) {
	var m models.Supplier
	err := row.Scan(
		&m.SupplierID,
		&m.Name,
		&m.Category,
		&m.Status,
		&m.ManualBalanceSet,
		&m.ManualBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxSupplierRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, name, category, status, manual_balance_set, manual_balance, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		supplier.SupplierID,
		supplier.Name,
		supplier.Category,
		string(supplier.Status),
		supplier.ManualBalanceSet,
		supplier.ManualBalance,
		supplier.CreatedAt,
		supplier.CreatedBy,
		supplier.LastUpdatedAt,
		supplier.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: supplier %q already exists", apperrors.ErrDuplicate, supplier.Name)
		}
		return fmt.Errorf("failed to save supplier %s: %w", supplier.SupplierID, err)
	}
	return nil
}

func (r *PgxSupplierRepository) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	query := `
		SELECT ` + selectSupplierColumns + `
		FROM suppliers
		WHERE supplier_id = $1;
	`
	m, err := scanSupplier(r.Pool.QueryRow(ctx, query, supplierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by ID %s: %w", supplierID, err)
	}
	d := toDomainSupplier(m)
	return &d, nil
}

func (r *PgxSupplierRepository) ListSuppliers(ctx context.Context, limit int, offset int) ([]domain.Supplier, error) {
	query := `
		SELECT ` + selectSupplierColumns + `
		FROM suppliers
		ORDER BY name ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		m, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, toDomainSupplier(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *PgxSupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, category = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE supplier_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		supplier.SupplierID,
		supplier.Name,
		supplier.Category,
		string(supplier.Status),
		supplier.LastUpdatedAt,
		supplier.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier %s: %w", supplier.SupplierID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const computedBalanceQuery = `
	SELECT COALESCE(SUM(p.total_amount), 0) - COALESCE((
		SELECT SUM(pay.amount)
		FROM payments pay
		JOIN purchases pur ON pur.purchase_id = pay.purchase_id
		WHERE pur.supplier_id = $1
	), 0)
	FROM purchases p
	WHERE p.supplier_id = $1;
`

// ComputedBalance is sum(purchase totals) minus sum(payments) over the
// supplier's purchases, ignoring any manual override.
func (r *PgxSupplierRepository) ComputedBalance(ctx context.Context, supplierID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, computedBalanceQuery, supplierID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance for supplier %s: %w", supplierID, err)
	}
	return balance, nil
}

// SetManualOverride pins the supplier balance to newValue. The row is locked,
// the prior effective balance captured as the record's before value, and the
// audit record appended in the same transaction.
func (r *PgxSupplierRepository) SetManualOverride(ctx context.Context, supplierID string, newValue decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	before, err := r.lockAndEffectiveBalance(ctx, tx, supplierID)
	if err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE suppliers
		SET manual_balance_set = TRUE, manual_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE supplier_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, supplierID, newValue, now, userID); err != nil {
		return nil, fmt.Errorf("failed to set override for supplier %s: %w", supplierID, err)
	}

	record := domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    supplierID,
		ValueBefore: before,
		ValueAfter:  newValue,
		Note:        note,
		RecordedAt:  now,
		RecordedBy:  userID,
	}
	if err := insertHistoryInTx(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &record, nil
}

// ClearManualOverride drops the pin, reverting to the computed balance. The
// audit record carries the override value as before and the computed balance
// as after.
func (r *PgxSupplierRepository) ClearManualOverride(ctx context.Context, supplierID string, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	selectQuery := `
		SELECT ` + selectSupplierColumns + `
		FROM suppliers
		WHERE supplier_id = $1
		FOR UPDATE;
	`
	m, err := scanSupplier(tx.QueryRow(ctx, selectQuery, supplierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock supplier %s: %w", supplierID, err)
	}
	if !m.ManualBalanceSet {
		return nil, fmt.Errorf("supplier %s has no override to clear: %w", supplierID, apperrors.ErrConflict)
	}

	var computed decimal.Decimal
	if err := tx.QueryRow(ctx, computedBalanceQuery, supplierID).Scan(&computed); err != nil {
		return nil, fmt.Errorf("failed to compute balance for supplier %s: %w", supplierID, err)
	}

	updateQuery := `
		UPDATE suppliers
		SET manual_balance_set = FALSE, manual_balance = 0, last_updated_at = $2, last_updated_by = $3
		WHERE supplier_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, supplierID, now, userID); err != nil {
		return nil, fmt.Errorf("failed to clear override for supplier %s: %w", supplierID, err)
	}

	record := domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    supplierID,
		ValueBefore: m.ManualBalance,
		ValueAfter:  computed,
		Note:        note,
		RecordedAt:  now,
		RecordedBy:  userID,
	}
	if err := insertHistoryInTx(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &record, nil
}

// lockAndEffectiveBalance locks the supplier row and returns its effective
// balance: the override when pinned, the computed balance otherwise.
func (r *PgxSupplierRepository) lockAndEffectiveBalance(ctx context.Context, tx pgx.Tx, supplierID string) (decimal.Decimal, error) {
	selectQuery := `
		SELECT ` + selectSupplierColumns + `
		FROM suppliers
		WHERE supplier_id = $1
		FOR UPDATE;
	`
	m, err := scanSupplier(tx.QueryRow(ctx, selectQuery, supplierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to lock supplier %s: %w", supplierID, err)
	}
	if m.ManualBalanceSet {
		return m.ManualBalance, nil
	}

	var computed decimal.Decimal
	if err := tx.QueryRow(ctx, computedBalanceQuery, supplierID).Scan(&computed); err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance for supplier %s: %w", supplierID, err)
	}
	return computed, nil
}
