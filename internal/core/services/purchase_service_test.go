package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/core/services"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockPurchaseRepository is a mock type for the PurchaseRepositoryFacade interface
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) SavePurchase(ctx context.Context, purchase domain.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListPurchases(ctx context.Context, supplierID *string, status *domain.PurchaseStatus, limit int, offset int) ([]domain.Purchase, error) {
	args := m.Called(ctx, supplierID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) DeletePurchase(ctx context.Context, purchaseID string) error {
	args := m.Called(ctx, purchaseID)
	return args.Error(0)
}

func (m *MockPurchaseRepository) SumPayments(ctx context.Context, purchaseID string) (decimal.Decimal, error) {
	args := m.Called(ctx, purchaseID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPurchaseRepository) ListPayments(ctx context.Context, purchaseID string) ([]domain.Payment, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPurchaseRepository) ApplyPayment(ctx context.Context, params portsrepo.ApplyPaymentParams) (*domain.Payment, domain.PurchaseStatus, error) {
	args := m.Called(ctx, params)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Get(1).(domain.PurchaseStatus), args.Error(2)
}

// MockSupplierRepository is a mock type for the SupplierRepositoryFacade interface
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) SaveSupplier(ctx context.Context, supplier domain.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) ListSuppliers(ctx context.Context, limit int, offset int) ([]domain.Supplier, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) UpdateSupplier(ctx context.Context, supplier domain.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) ComputedBalance(ctx context.Context, supplierID string) (decimal.Decimal, error) {
	args := m.Called(ctx, supplierID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSupplierRepository) SetManualOverride(ctx context.Context, supplierID string, newValue decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	args := m.Called(ctx, supplierID, newValue, note, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceHistoryRecord), args.Error(1)
}

func (m *MockSupplierRepository) ClearManualOverride(ctx context.Context, supplierID string, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	args := m.Called(ctx, supplierID, note, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceHistoryRecord), args.Error(1)
}

// --- Test Suite Setup ---

type PurchaseServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockPurchaseRepository
	mockSupplier *MockSupplierRepository
	mockAccount  *MockAccountRepository
	service      portssvc.PurchaseSvcFacade
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPurchaseRepository)
	suite.mockSupplier = new(MockSupplierRepository)
	suite.mockAccount = new(MockAccountRepository)
	suite.service = services.NewPurchaseService(suite.mockRepo, suite.mockSupplier, suite.mockAccount)
}

func openPurchase(total string) *domain.Purchase {
	return &domain.Purchase{
		PurchaseID:   uuid.NewString(),
		SupplierID:   uuid.NewString(),
		PurchaseDate: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Description:  "Estoque de bebidas",
		TotalAmount:  decimal.RequireFromString(total),
		Mode:         domain.PaymentCash,
		Status:       domain.PurchaseOpen,
	}
}

func activeSupplier(supplierID string) *domain.Supplier {
	return &domain.Supplier{
		SupplierID: supplierID,
		Name:       "Distribuidora Sul",
		Status:     domain.SupplierActive,
	}
}

// --- Test Cases ---

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_CashSuccess() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	userID := uuid.NewString()
	req := dto.CreatePurchaseRequest{
		SupplierID:   supplierID,
		PurchaseDate: "2024-05-02",
		Description:  "Estoque de bebidas",
		TotalAmount:  "1.000,00",
		Mode:         "CASH",
	}

	suite.mockSupplier.On("FindSupplierByID", ctx, supplierID).Return(activeSupplier(supplierID), nil).Once()
	suite.mockRepo.On("SavePurchase", ctx, mock.AnythingOfType("domain.Purchase")).Return(nil).Once()

	created, err := suite.service.CreatePurchase(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal(domain.PurchaseOpen, created.Status)
	suite.Equal(domain.PaymentCash, created.Mode)
	suite.True(created.TotalAmount.Equal(decimal.NewFromInt(1000)))
	suite.Nil(created.DueDate)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockSupplier.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_CreditRequiresDueDate() {
	ctx := context.Background()
	req := dto.CreatePurchaseRequest{
		SupplierID:   uuid.NewString(),
		PurchaseDate: "2024-05-02",
		Description:  "Estoque",
		TotalAmount:  "500,00",
		Mode:         "CREDIT",
	}

	created, err := suite.service.CreatePurchase(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePurchase", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_InactiveSupplier() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	req := dto.CreatePurchaseRequest{
		SupplierID:   supplierID,
		PurchaseDate: "2024-05-02",
		Description:  "Estoque",
		TotalAmount:  "500,00",
		Mode:         "CASH",
	}

	inactive := activeSupplier(supplierID)
	inactive.Status = domain.SupplierInactive
	suite.mockSupplier.On("FindSupplierByID", ctx, supplierID).Return(inactive, nil).Once()

	created, err := suite.service.CreatePurchase(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePurchase", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestApplyPayment_PartialSuccess() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	purchase := openPurchase("1000.00")

	amount := decimal.RequireFromString("322.45")
	posted := &domain.Payment{
		PaymentID:     uuid.NewString(),
		PurchaseID:    purchase.PurchaseID,
		AccountID:     accountID,
		Amount:        amount,
		Kind:          domain.PaymentPartial,
		BalanceBefore: decimal.NewFromInt(5000),
		BalanceAfter:  decimal.RequireFromString("4677.55"),
	}

	suite.mockRepo.On("FindPurchaseByID", ctx, purchase.PurchaseID).Return(purchase, nil).Once()
	suite.mockRepo.On("SumPayments", ctx, purchase.PurchaseID).Return(decimal.Zero, nil).Once()
	suite.mockAccount.On("FindAccountByID", ctx, accountID).Return(activeAccount(accountID), nil).Once()
	suite.mockRepo.On("ApplyPayment", ctx, mock.MatchedBy(func(p portsrepo.ApplyPaymentParams) bool {
		return p.PurchaseID == purchase.PurchaseID &&
			p.AccountID == accountID &&
			p.Amount.Equal(amount) &&
			p.UserID == userID
	})).Return(posted, domain.PurchasePartial, nil).Once()

	payment, err := suite.service.ApplyPayment(ctx, purchase.PurchaseID, dto.ApplyPaymentRequest{
		AccountID: accountID,
		Amount:    "322,45",
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentPartial, payment.Kind)
	suite.True(payment.BalanceAfter.Equal(payment.BalanceBefore.Sub(amount)))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockAccount.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestApplyPayment_Overpayment() {
	ctx := context.Background()
	purchase := openPurchase("1000.00")
	purchase.Status = domain.PurchasePartial

	suite.mockRepo.On("FindPurchaseByID", ctx, purchase.PurchaseID).Return(purchase, nil).Once()
	suite.mockRepo.On("SumPayments", ctx, purchase.PurchaseID).Return(decimal.RequireFromString("900.00"), nil).Once()

	payment, err := suite.service.ApplyPayment(ctx, purchase.PurchaseID, dto.ApplyPaymentRequest{
		AccountID: uuid.NewString(),
		Amount:    "150,00",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrOverpayment)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyPayment", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestApplyPayment_AlreadySettled() {
	ctx := context.Background()
	purchase := openPurchase("1000.00")
	purchase.Status = domain.PurchaseSettled

	suite.mockRepo.On("FindPurchaseByID", ctx, purchase.PurchaseID).Return(purchase, nil).Once()

	payment, err := suite.service.ApplyPayment(ctx, purchase.PurchaseID, dto.ApplyPaymentRequest{
		AccountID: uuid.NewString(),
		Amount:    "10,00",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrAlreadySettled)
	suite.mockRepo.AssertNotCalled(suite.T(), "SumPayments", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestApplyPayment_NonPositiveAmount() {
	ctx := context.Background()

	payment, err := suite.service.ApplyPayment(ctx, uuid.NewString(), dto.ApplyPaymentRequest{
		AccountID: uuid.NewString(),
		Amount:    "0,00",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindPurchaseByID", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestApplyPayment_InactiveAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()
	purchase := openPurchase("1000.00")

	inactive := activeAccount(accountID)
	inactive.IsActive = false

	suite.mockRepo.On("FindPurchaseByID", ctx, purchase.PurchaseID).Return(purchase, nil).Once()
	suite.mockRepo.On("SumPayments", ctx, purchase.PurchaseID).Return(decimal.Zero, nil).Once()
	suite.mockAccount.On("FindAccountByID", ctx, accountID).Return(inactive, nil).Once()

	payment, err := suite.service.ApplyPayment(ctx, purchase.PurchaseID, dto.ApplyPaymentRequest{
		AccountID: accountID,
		Amount:    "100,00",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(payment)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyPayment", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestDeletePurchase_NonOwnerForbidden() {
	ctx := context.Background()
	purchase := openPurchase("1000.00")
	purchase.CreatedBy = uuid.NewString()

	suite.mockRepo.On("FindPurchaseByID", ctx, purchase.PurchaseID).Return(purchase, nil).Once()

	err := suite.service.DeletePurchase(ctx, purchase.PurchaseID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeletePurchase", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestGetPurchaseByID_WithPayments() {
	ctx := context.Background()
	purchase := openPurchase("1000.00")
	payments := []domain.Payment{
		{PaymentID: uuid.NewString(), PurchaseID: purchase.PurchaseID, Amount: decimal.RequireFromString("322.45"), Kind: domain.PaymentPartial},
	}

	suite.mockRepo.On("FindPurchaseByID", ctx, purchase.PurchaseID).Return(purchase, nil).Once()
	suite.mockRepo.On("ListPayments", ctx, purchase.PurchaseID).Return(payments, nil).Once()

	got, gotPayments, err := suite.service.GetPurchaseByID(ctx, purchase.PurchaseID, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(purchase.PurchaseID, got.PurchaseID)
	suite.Len(gotPayments, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
