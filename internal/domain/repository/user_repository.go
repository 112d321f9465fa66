package repository

import (
	"context"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Create returns apperr.ErrDuplicateIdentity for a taken email; lookups
// return apperr.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persists profile fields and the image reference.
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
}
