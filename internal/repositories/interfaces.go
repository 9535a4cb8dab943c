package repositories

import (
	"context"

	"github.com/chrisdamba/foodiq/internal/models"
)

type BusinessRepository interface {
	CreateSchema(ctx context.Context) error
	BulkCreate(ctx context.Context, businesses []models.Business) error
	Create(ctx context.Context, business *models.Business) error
	Search(ctx context.Context, term string, limit int) ([]models.Business, error)
	GetByID(ctx context.Context, id string) (*models.Business, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
