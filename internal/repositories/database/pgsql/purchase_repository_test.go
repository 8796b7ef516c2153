package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var purchaseColumns = []string{
	"purchase_id", "supplier_id", "purchase_date", "description", "category",
	"total_amount", "mode", "due_date", "status",
	"created_at", "created_by", "last_updated_at", "last_updated_by",
}

var accountColumns = []string{
	"account_id", "name", "is_active", "is_primary",
	"created_at", "created_by", "last_updated_at", "last_updated_by", "balance",
}

func purchaseRow(purchaseID, supplierID string, total decimal.Decimal, status string, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(purchaseColumns).AddRow(
		purchaseID, supplierID, now, "Estoque de bebidas", "Bebidas",
		total, "CREDIT", nil, status,
		now, "user-1", now, "user-1",
	)
}

func accountRow(accountID string, balance decimal.Decimal, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumns).AddRow(
		accountID, "Caixa Loja", true, true,
		now, "user-1", now, "user-1", balance,
	)
}

func TestPurchaseRepository_ApplyPayment(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxPurchaseRepository{BaseRepository: BaseRepository{Pool: mock}}

	purchaseID := uuid.NewString()
	supplierID := uuid.NewString()
	accountID := uuid.NewString()
	userID := uuid.NewString()
	now := time.Now().UTC()

	params := portsrepo.ApplyPaymentParams{
		PurchaseID:  purchaseID,
		AccountID:   accountID,
		Amount:      decimal.RequireFromString("300.00"),
		PaymentDate: now,
		Note:        "Primeira parcela",
		UserID:      userID,
		Now:         now,
	}

	t.Run("partial payment debits the account and keeps the purchase open", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .+ FROM purchases.+FOR UPDATE`).
			WithArgs(purchaseID).
			WillReturnRows(purchaseRow(purchaseID, supplierID, decimal.RequireFromString("1000.00"), "OPEN", now))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
			WithArgs(purchaseID).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("200.00")))
		mock.ExpectQuery(`(?s)SELECT .+ FROM accounts.+FOR UPDATE`).
			WithArgs(accountID).
			WillReturnRows(accountRow(accountID, decimal.RequireFromString("5000.00"), now))
		mock.ExpectExec(`(?s)UPDATE accounts.+SET balance`).
			WithArgs(accountID, decimal.RequireFromString("4700.00"), params.Now, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`INSERT INTO payments`).
			WithArgs(pgxmock.AnyArg(), purchaseID, accountID, params.PaymentDate,
				params.Amount, "PARTIAL",
				decimal.RequireFromString("5000.00"), decimal.RequireFromString("4700.00"),
				params.Note, params.Now, userID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`(?s)UPDATE purchases.+SET status`).
			WithArgs(purchaseID, "PARTIAL", params.Now, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`INSERT INTO balance_history`).
			WithArgs(pgxmock.AnyArg(), accountID,
				decimal.RequireFromString("5000.00"), decimal.RequireFromString("4700.00"),
				pgxmock.AnyArg(), params.Now, userID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		payment, status, err := repo.ApplyPayment(ctx, params)

		require.NoError(t, err)
		require.NotNil(t, payment)
		assert.Equal(t, domain.PaymentPartial, payment.Kind)
		assert.True(t, payment.BalanceBefore.Equal(decimal.RequireFromString("5000.00")))
		assert.True(t, payment.BalanceAfter.Equal(decimal.RequireFromString("4700.00")))
		assert.Equal(t, domain.PurchasePartial, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("paying the full open balance settles the purchase", func(t *testing.T) {
		settle := params
		settle.Amount = decimal.RequireFromString("800.00")

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .+ FROM purchases.+FOR UPDATE`).
			WithArgs(purchaseID).
			WillReturnRows(purchaseRow(purchaseID, supplierID, decimal.RequireFromString("1000.00"), "PARTIAL", now))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
			WithArgs(purchaseID).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("200.00")))
		mock.ExpectQuery(`(?s)SELECT .+ FROM accounts.+FOR UPDATE`).
			WithArgs(accountID).
			WillReturnRows(accountRow(accountID, decimal.RequireFromString("5000.00"), now))
		mock.ExpectExec(`(?s)UPDATE accounts.+SET balance`).
			WithArgs(accountID, decimal.RequireFromString("4200.00"), settle.Now, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`INSERT INTO payments`).
			WithArgs(pgxmock.AnyArg(), purchaseID, accountID, settle.PaymentDate,
				settle.Amount, "FULL",
				decimal.RequireFromString("5000.00"), decimal.RequireFromString("4200.00"),
				settle.Note, settle.Now, userID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`(?s)UPDATE purchases.+SET status`).
			WithArgs(purchaseID, "SETTLED", settle.Now, userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec(`INSERT INTO balance_history`).
			WithArgs(pgxmock.AnyArg(), accountID,
				decimal.RequireFromString("5000.00"), decimal.RequireFromString("4200.00"),
				pgxmock.AnyArg(), settle.Now, userID).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		payment, status, err := repo.ApplyPayment(ctx, settle)

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentFull, payment.Kind)
		assert.Equal(t, domain.PurchaseSettled, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("overpayment rolls back before touching the account", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .+ FROM purchases.+FOR UPDATE`).
			WithArgs(purchaseID).
			WillReturnRows(purchaseRow(purchaseID, supplierID, decimal.RequireFromString("1000.00"), "PARTIAL", now))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
			WithArgs(purchaseID).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("900.00")))
		mock.ExpectRollback()

		payment, _, err := repo.ApplyPayment(ctx, params)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrOverpayment)
		assert.Nil(t, payment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("settled purchase rejects further payments", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .+ FROM purchases.+FOR UPDATE`).
			WithArgs(purchaseID).
			WillReturnRows(purchaseRow(purchaseID, supplierID, decimal.RequireFromString("1000.00"), "SETTLED", now))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
			WithArgs(purchaseID).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.RequireFromString("1000.00")))
		mock.ExpectRollback()

		_, _, err := repo.ApplyPayment(ctx, params)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrAlreadySettled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("underfunded account rolls back the whole unit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .+ FROM purchases.+FOR UPDATE`).
			WithArgs(purchaseID).
			WillReturnRows(purchaseRow(purchaseID, supplierID, decimal.RequireFromString("1000.00"), "OPEN", now))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM payments`).
			WithArgs(purchaseID).
			WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.Zero))
		mock.ExpectQuery(`(?s)SELECT .+ FROM accounts.+FOR UPDATE`).
			WithArgs(accountID).
			WillReturnRows(accountRow(accountID, decimal.RequireFromString("100.00"), now))
		mock.ExpectRollback()

		_, _, err := repo.ApplyPayment(ctx, params)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPurchaseRepository_FindPurchaseByID_NotFound(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxPurchaseRepository{BaseRepository: BaseRepository{Pool: mock}}
	purchaseID := uuid.NewString()

	mock.ExpectQuery(`(?s)SELECT .+ FROM purchases.+WHERE purchase_id`).
		WithArgs(purchaseID).
		WillReturnRows(pgxmock.NewRows(purchaseColumns))

	purchase, err := repo.FindPurchaseByID(ctx, purchaseID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, purchase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseRepository_DeletePurchase(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxPurchaseRepository{BaseRepository: BaseRepository{Pool: mock}}
	purchaseID := uuid.NewString()

	t.Run("existing purchase is removed", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM purchases`).
			WithArgs(purchaseID).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, repo.DeletePurchase(ctx, purchaseID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing purchase reports not found", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM purchases`).
			WithArgs(purchaseID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.DeletePurchase(ctx, purchaseID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
