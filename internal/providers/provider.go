package providers

import (
	"context"

	"github.com/chrisdamba/foodiq/internal/models"
)

// Provider is a source of business records. Implementations return
// models.ErrNotFound from Business when no record has the given id.
type Provider interface {
	Name() string
	Search(ctx context.Context, term, location string, limit int) ([]models.Business, error)
	Business(ctx context.Context, id string) (*models.Business, error)
}

// Closer is implemented by providers that hold connections.
type Closer interface {
	Close() error
}
