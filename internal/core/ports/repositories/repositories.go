package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	EntryRepo       EntryRepositoryFacade
	ExpenseRepo     ExpenseRepositoryFacade
	SupplierRepo    SupplierRepositoryFacade
	PurchaseRepo    PurchaseRepositoryFacade
	HistoryRepo     HistoryRepositoryFacade
	MarketplaceRepo MarketplaceRepositoryFacade
	UserRepo        UserRepositoryFacade
	ReportingRepo   ReportingRepositoryFacade
}
