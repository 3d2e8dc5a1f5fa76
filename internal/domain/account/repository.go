package account

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/mood-journal/internal/models"
)

var ErrNotFound = errors.New("user not found")

// Repository persists users. Create reports a duplicate username as the
// business error "username_taken".
type Repository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Delete removes the user; the database cascades to its Logs.
	Delete(ctx context.Context, id uint) error
}
