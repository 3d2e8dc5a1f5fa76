package journal

import (
	"context"

	"github.com/BruksfildServices01/mood-journal/internal/models"
)

// ListFilter narrows List. A nil UserID returns every Log.
type ListFilter struct {
	UserID *uint
}

// Repository is the Log Store. Each call runs as a single statement; errors
// are ErrNotFound, *ValidationError or *StorageError.
type Repository interface {
	Insert(ctx context.Context, l *models.Log) error
	Get(ctx context.Context, id uint) (*models.Log, error)
	// List returns Logs newest first, ties broken by id descending.
	List(ctx context.Context, filter ListFilter) ([]models.Log, error)
	Update(ctx context.Context, id uint, changes map[string]any) (*models.Log, error)
	Delete(ctx context.Context, id uint) error
}
