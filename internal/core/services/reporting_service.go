package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portsrepo "github.com/caixasimples/caixa_simples_app/internal/core/ports/repositories"
	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
)

// reportingServiceImpl implements the ReportingSvcFacade interface
type reportingServiceImpl struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingServiceImpl{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingServiceImpl)(nil)

func (s *reportingServiceImpl) GetCashflowSummary(ctx context.Context, from time.Time, to time.Time, userID string) (*domain.CashflowSummary, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("period end precedes period start: %w", apperrors.ErrValidation)
	}

	summary, err := s.reportingRepo.CashflowSummary(ctx, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to build cashflow summary",
			slog.Time("from", from),
			slog.Time("to", to))
		return nil, err
	}
	return summary, nil
}
