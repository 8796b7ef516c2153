package services

import (
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, repos.HistoryRepo)
	container.Marketplace = NewMarketplaceService(repos.MarketplaceRepo)
	container.Entry = NewEntryService(repos.EntryRepo, repos.AccountRepo, repos.MarketplaceRepo)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.AccountRepo)
	container.Supplier = NewSupplierService(repos.SupplierRepo, repos.HistoryRepo)
	container.Purchase = NewPurchaseService(repos.PurchaseRepo, repos.SupplierRepo, repos.AccountRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}
