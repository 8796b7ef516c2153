package services

import (
	"context"
	"fmt"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	portssvc "github.com/caixasimples/caixa_simples_app/internal/core/ports/services"
	"github.com/caixasimples/caixa_simples_app/internal/platform/config"
	"github.com/caixasimples/caixa_simples_app/internal/utils"
)

// tokenServiceImpl issues JWT access tokens for authenticated users
type tokenServiceImpl struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenServiceImpl{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenServiceImpl)(nil)

func (s *tokenServiceImpl) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, expiryTime, nil
}
