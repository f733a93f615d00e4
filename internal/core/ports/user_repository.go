package ports

import (
	"context"

	"github.com/ecom/user-service/internal/core/domain"
)

// UserRepository defines the persistence contract for identity records.
//
// Implementations must enforce email uniqueness at the storage layer and
// return domain.ErrUserExists from Create/Update when the unique constraint
// is violated, so that the loser of a concurrent registration race still
// surfaces as a duplicate rather than an opaque failure.
type UserRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
