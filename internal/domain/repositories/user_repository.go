package repositories

import (
	"context"

	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
	"myduka.backend/pkg/utils"
)

// UserRepository defines account data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, filter entities.UserFilter, pagination utils.PaginationParams) ([]*entities.User, int64, error)
}
