package pgsql

import (
	"context"
	"testing"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_SaveAccount(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxAccountRepository{BaseRepository: BaseRepository{Pool: mock}}

	now := time.Now().UTC()
	acc := domain.Account{
		AccountID: uuid.NewString(),
		Name:      "Caixa Loja",
		IsActive:  true,
		IsPrimary: false,
		Balance:   decimal.RequireFromString("150.00"),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "user-1",
			LastUpdatedAt: now,
			LastUpdatedBy: "user-1",
		},
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(acc.AccountID, acc.Name, acc.IsActive, acc.IsPrimary,
				acc.CreatedAt, acc.CreatedBy, acc.LastUpdatedAt, acc.LastUpdatedBy, acc.Balance).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.SaveAccount(ctx, acc))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate name maps the unique violation", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO accounts`).
			WithArgs(acc.AccountID, acc.Name, acc.IsActive, acc.IsPrimary,
				acc.CreatedAt, acc.CreatedBy, acc.LastUpdatedAt, acc.LastUpdatedBy, acc.Balance).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_accounts_name"})

		err := repo.SaveAccount(ctx, acc)
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_FindAccountByID_NotFound(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxAccountRepository{BaseRepository: BaseRepository{Pool: mock}}
	accountID := uuid.NewString()

	mock.ExpectQuery(`(?s)SELECT .+ FROM accounts.+WHERE account_id`).
		WithArgs(accountID).
		WillReturnRows(pgxmock.NewRows(accountColumns))

	account, err := repo.FindAccountByID(ctx, accountID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, account)
	assert.NoError(t, mock.ExpectationsWereMet())
}
