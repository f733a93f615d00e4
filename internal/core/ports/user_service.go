package ports

import (
	"context"

	"github.com/ecom/user-service/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Role may be
// empty, in which case domain.DefaultRole applies.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.Role
}

// UpdateInput carries a partial update. Nil fields mean "leave unchanged";
// a present but blank Password is also left unchanged.
type UpdateInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Role      *domain.Role
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error)
}
