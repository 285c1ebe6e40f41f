package repositories

import (
	"context"

	"github.com/google/uuid"
	"myduka.backend/internal/domain/entities"
)

// StoreRepository defines store data operations
type StoreRepository interface {
	Create(ctx context.Context, store *entities.Store) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Store, error)
	// List returns all stores, or only those owned by merchantID when it is set
	List(ctx context.Context, merchantID *uuid.UUID) ([]*entities.Store, error)
}
