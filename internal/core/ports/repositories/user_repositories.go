package repositories

import (
	"context"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
)

// UserRepositoryFacade defines persistence operations for actors.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	// DeleteUser soft-deletes; history rows created by the user keep pointing
	// at a resolvable id.
	DeleteUser(ctx context.Context, userID string, deletedBy string, now time.Time) error
}
