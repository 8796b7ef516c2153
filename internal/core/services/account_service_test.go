package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/core/services"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindPrimaryAccount(ctx context.Context) (*domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SetPrimaryAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) Credit(ctx context.Context, accountID string, amount decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	args := m.Called(ctx, accountID, amount, note, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceHistoryRecord), args.Error(1)
}

func (m *MockAccountRepository) Debit(ctx context.Context, accountID string, amount decimal.Decimal, note string, userID string, now time.Time) (*domain.BalanceHistoryRecord, error) {
	args := m.Called(ctx, accountID, amount, note, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceHistoryRecord), args.Error(1)
}

// MockHistoryRepository is a mock type for the HistoryRepositoryFacade interface
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, record domain.BalanceHistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) AppendInTx(ctx context.Context, tx pgx.Tx, record domain.BalanceHistoryRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListHistory(ctx context.Context, entityID string) ([]domain.BalanceHistoryRecord, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceHistoryRecord), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockAccountRepository
	mockHistory *MockHistoryRepository
	service     portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockHistory = new(MockHistoryRepository)
	suite.service = services.NewAccountService(suite.mockRepo, suite.mockHistory)
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{Name: "Caixa Loja"}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal(req.Name, created.Name)
	suite.True(created.IsActive)
	suite.False(created.IsPrimary)
	suite.True(created.Balance.IsZero())
	suite.Equal(creatorUserID, created.CreatedBy)
	suite.Equal(creatorUserID, created.LastUpdatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_AsPrimary() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{Name: "Conta Principal", IsPrimary: true}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockRepo.On("SetPrimaryAccount", ctx, mock.AnythingOfType("string"), creatorUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.True(created.IsPrimary)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestSetPrimaryAccount_InactiveRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	userID := uuid.NewString()
	inactive := &domain.Account{AccountID: accountID, Name: "Desativada", IsActive: false}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(inactive, nil).Once()

	err := suite.service.SetPrimaryAccount(ctx, accountID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SetPrimaryAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(nil, fmt.Errorf("account: %w", apperrors.ErrNotFound)).Once()

	account, err := suite.service.GetAccountByID(ctx, accountID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetBalance() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{
		AccountID: accountID,
		Name:      "Caixa",
		IsActive:  true,
		Balance:   decimal.RequireFromString("1523.87"),
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	balance, err := suite.service.GetBalance(ctx, accountID, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("1523.87")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetBalanceHistory() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, IsActive: true}
	records := []domain.BalanceHistoryRecord{
		{RecordID: uuid.NewString(), EntityID: accountID, ValueBefore: decimal.Zero, ValueAfter: decimal.NewFromInt(100)},
		{RecordID: uuid.NewString(), EntityID: accountID, ValueBefore: decimal.NewFromInt(100), ValueAfter: decimal.NewFromInt(250)},
	}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockHistory.On("ListHistory", ctx, accountID).Return(records, nil).Once()

	got, err := suite.service.GetBalanceHistory(ctx, accountID, uuid.NewString())

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockHistory.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoFields() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Name: "Caixa", IsActive: true}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	got, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("Caixa", got.Name)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
