package pgsql

import (
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		EntryRepo:       newPgxEntryRepository(dbPool),
		ExpenseRepo:     newPgxExpenseRepository(dbPool),
		SupplierRepo:    newPgxSupplierRepository(dbPool),
		PurchaseRepo:    newPgxPurchaseRepository(dbPool),
		HistoryRepo:     newPgxHistoryRepository(dbPool),
		MarketplaceRepo: newPgxMarketplaceRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
		ReportingRepo:   newPgxReportingRepository(dbPool),
	}
}
