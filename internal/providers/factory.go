package providers

import (
	"context"
	"fmt"

	"github.com/chrisdamba/foodiq/internal/models"
)

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg *models.Config) (Provider, error) {
	switch cfg.Provider {
	case models.ProviderLocal, "":
		return NewLocalProviderFromConfig(cfg)
	case models.ProviderYelp:
		return NewYelpProvider(cfg.Yelp, nil), nil
	case models.ProviderPostgres:
		return NewPostgresProviderFromConfig(ctx, cfg)
	case models.ProviderElasticsearch:
		return NewElasticsearchProviderFromConfig(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
