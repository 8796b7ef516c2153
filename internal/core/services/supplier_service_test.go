package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/core/services"
	"github.com/caixasimples/caixa_simples_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SupplierServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockSupplierRepository
	mockHistory *MockHistoryRepository
	service     portssvc.SupplierSvcFacade
}

func (suite *SupplierServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockSupplierRepository)
	suite.mockHistory = new(MockHistoryRepository)
	suite.service = services.NewSupplierService(suite.mockRepo, suite.mockHistory)
}

func (suite *SupplierServiceTestSuite) TestCreateSupplier_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateSupplierRequest{Name: "Distribuidora Sul", Category: "Bebidas"}

	suite.mockRepo.On("SaveSupplier", ctx, mock.AnythingOfType("domain.Supplier")).Return(nil).Once()

	created, err := suite.service.CreateSupplier(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.SupplierID)
	suite.Equal(domain.SupplierActive, created.Status)
	suite.False(created.ManualBalanceSet)
	suite.Equal(userID, created.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestGetEffectiveBalance_Computed() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	supplier := &domain.Supplier{SupplierID: supplierID, Status: domain.SupplierActive}

	suite.mockRepo.On("FindSupplierByID", ctx, supplierID).Return(supplier, nil).Once()
	suite.mockRepo.On("ComputedBalance", ctx, supplierID).Return(decimal.RequireFromString("300.00"), nil).Once()

	balance, err := suite.service.GetEffectiveBalance(ctx, supplierID, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("300.00")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestGetEffectiveBalance_OverrideWins() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	supplier := &domain.Supplier{
		SupplierID:       supplierID,
		Status:           domain.SupplierActive,
		ManualBalanceSet: true,
		ManualBalance:    decimal.RequireFromString("250.00"),
	}

	suite.mockRepo.On("FindSupplierByID", ctx, supplierID).Return(supplier, nil).Once()

	balance, err := suite.service.GetEffectiveBalance(ctx, supplierID, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("250.00")))
	suite.mockRepo.AssertNotCalled(suite.T(), "ComputedBalance", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestAdjustSupplierBalance_RecordsTransition() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	userID := uuid.NewString()
	supplier := &domain.Supplier{SupplierID: supplierID, Status: domain.SupplierActive}
	record := &domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    supplierID,
		ValueBefore: decimal.RequireFromString("300.00"),
		ValueAfter:  decimal.RequireFromString("250.00"),
		Note:        "Acerto combinado por telefone",
		RecordedBy:  userID,
	}

	suite.mockRepo.On("FindSupplierByID", ctx, supplierID).Return(supplier, nil).Once()
	suite.mockRepo.On("SetManualOverride", ctx, supplierID, decimal.RequireFromString("250.00"), "Acerto combinado por telefone", userID, mock.AnythingOfType("time.Time")).
		Return(record, nil).Once()

	got, err := suite.service.AdjustSupplierBalance(ctx, supplierID, dto.AdjustSupplierBalanceRequest{
		NewValue: "250,00",
		Note:     "Acerto combinado por telefone",
	}, userID)

	suite.Require().NoError(err)
	suite.True(got.ValueBefore.Equal(decimal.RequireFromString("300.00")))
	suite.True(got.ValueAfter.Equal(decimal.RequireFromString("250.00")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestAdjustSupplierBalance_OverrideNeverNegative() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	userID := uuid.NewString()
	supplier := &domain.Supplier{SupplierID: supplierID, Status: domain.SupplierActive}

	suite.mockRepo.On("FindSupplierByID", ctx, supplierID).Return(supplier, nil).Once()
	suite.mockRepo.On("SetManualOverride", ctx, supplierID, mock.MatchedBy(func(v decimal.Decimal) bool {
		return !v.IsNegative() && v.Equal(decimal.RequireFromString("250.00"))
	}), "", userID, mock.AnythingOfType("time.Time")).
		Return(&domain.BalanceHistoryRecord{}, nil).Once()

	// Sign characters are dropped during parsing, so a signed request
	// still produces a non-negative override.
	_, err := suite.service.AdjustSupplierBalance(ctx, supplierID, dto.AdjustSupplierBalanceRequest{
		NewValue: "-250,00",
	}, userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestClearSupplierBalanceOverride_NoOverrideIsNoOp() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	supplier := &domain.Supplier{SupplierID: supplierID, Status: domain.SupplierActive, ManualBalanceSet: false}

	suite.mockRepo.On("FindSupplierByID", ctx, supplierID).Return(supplier, nil).Once()

	record, err := suite.service.ClearSupplierBalanceOverride(ctx, supplierID, "", uuid.NewString())

	suite.Require().NoError(err)
	suite.Nil(record)
	suite.mockRepo.AssertNotCalled(suite.T(), "ClearManualOverride", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestClearSupplierBalanceOverride_RevertsToComputed() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	userID := uuid.NewString()
	supplier := &domain.Supplier{
		SupplierID:       supplierID,
		Status:           domain.SupplierActive,
		ManualBalanceSet: true,
		ManualBalance:    decimal.RequireFromString("250.00"),
	}
	record := &domain.BalanceHistoryRecord{
		RecordID:    uuid.NewString(),
		EntityID:    supplierID,
		ValueBefore: decimal.RequireFromString("250.00"),
		ValueAfter:  decimal.RequireFromString("300.00"),
		RecordedAt:  time.Now().UTC(),
		RecordedBy:  userID,
	}

	suite.mockRepo.On("FindSupplierByID", ctx, supplierID).Return(supplier, nil).Once()
	suite.mockRepo.On("ClearManualOverride", ctx, supplierID, "", userID, mock.AnythingOfType("time.Time")).Return(record, nil).Once()

	got, err := suite.service.ClearSupplierBalanceOverride(ctx, supplierID, "", userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(got)
	suite.True(got.ValueAfter.Equal(decimal.RequireFromString("300.00")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SupplierServiceTestSuite) TestGetSupplierBalanceHistory() {
	ctx := context.Background()
	supplierID := uuid.NewString()
	supplier := &domain.Supplier{SupplierID: supplierID, Status: domain.SupplierActive}
	records := []domain.BalanceHistoryRecord{
		{RecordID: uuid.NewString(), EntityID: supplierID},
		{RecordID: uuid.NewString(), EntityID: supplierID},
	}

	suite.mockRepo.On("FindSupplierByID", ctx, supplierID).Return(supplier, nil).Once()
	suite.mockHistory.On("ListHistory", ctx, supplierID).Return(records, nil).Once()

	got, err := suite.service.GetSupplierBalanceHistory(ctx, supplierID, uuid.NewString())

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockHistory.AssertExpectations(suite.T())
}

func TestSupplierServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SupplierServiceTestSuite))
}
