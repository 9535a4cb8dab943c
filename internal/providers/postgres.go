package providers

import (
	"context"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/chrisdamba/foodiq/internal/repositories"
	"github.com/chrisdamba/foodiq/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresProvider serves a dataset seeded into Postgres. Matching follows
// the local provider: name or category titles, insertion order.
type PostgresProvider struct {
	repo repositories.BusinessRepository
	pool *pgxpool.Pool
}

func NewPostgresProvider(repo repositories.BusinessRepository) *PostgresProvider {
	return &PostgresProvider{repo: repo}
}

func NewPostgresProviderFromConfig(ctx context.Context, cfg *models.Config) (*PostgresProvider, error) {
	pool, err := postgres.Connect(ctx, cfg.Postgres.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &PostgresProvider{repo: postgres.NewBusinessRepository(pool), pool: pool}, nil
}

func (p *PostgresProvider) Name() string {
	return models.ProviderPostgres
}

func (p *PostgresProvider) Search(ctx context.Context, term, location string, limit int) ([]models.Business, error) {
	return p.repo.Search(ctx, term, limit)
}

func (p *PostgresProvider) Business(ctx context.Context, id string) (*models.Business, error) {
	return p.repo.GetByID(ctx, id)
}

func (p *PostgresProvider) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
