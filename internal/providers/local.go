package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chrisdamba/foodiq/internal/models"
)

// LocalProvider scans an in-memory dataset. It sleeps before answering to
// behave like a network-backed provider.
type LocalProvider struct {
	dataset      []models.Business
	searchDelay  time.Duration
	detailsDelay time.Duration
}

func NewLocalProvider(dataset []models.Business, searchDelay, detailsDelay time.Duration) *LocalProvider {
	return &LocalProvider{
		dataset:      dataset,
		searchDelay:  searchDelay,
		detailsDelay: detailsDelay,
	}
}

// NewLocalProviderFromConfig uses the configured dataset file, or the
// built-in fixtures when none is set.
func NewLocalProviderFromConfig(cfg *models.Config) (*LocalProvider, error) {
	dataset := Fixtures()
	if cfg.Local.DatasetFile != "" {
		loaded, err := LoadDataset(cfg.Local.DatasetFile)
		if err != nil {
			return nil, err
		}
		dataset = loaded
	}
	return NewLocalProvider(dataset, cfg.Local.SearchDelay, cfg.Local.DetailsDelay), nil
}

func (p *LocalProvider) Name() string {
	return models.ProviderLocal
}

// Search matches term case-insensitively against the name or the
// space-joined category titles. Location is not used for filtering.
func (p *LocalProvider) Search(ctx context.Context, term, location string, limit int) ([]models.Business, error) {
	if err := sleep(ctx, p.searchDelay); err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matches := make([]models.Business, 0)
	for _, b := range p.dataset {
		if len(matches) >= limit {
			break
		}
		if needle == "" || Matches(&b, needle) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

func (p *LocalProvider) Business(ctx context.Context, id string) (*models.Business, error) {
	if err := sleep(ctx, p.detailsDelay); err != nil {
		return nil, err
	}

	for i := range p.dataset {
		if p.dataset[i].ID == id {
			b := p.dataset[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("business %q: %w", id, models.ErrNotFound)
}

// Matches reports whether a lower-cased needle occurs in the business name or
// in its category titles joined by spaces.
func Matches(b *models.Business, needle string) bool {
	if strings.Contains(strings.ToLower(b.Name), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(b.CategoryTitles(), " ")), needle)
}

// LoadDataset reads businesses from a JSON file holding either an array or a
// search response object with a "businesses" key.
func LoadDataset(filePath string) ([]models.Business, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", filePath, err)
	}

	var businesses []models.Business
	if err := json.Unmarshal(data, &businesses); err == nil {
		return businesses, nil
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode dataset %s: %w", filePath, err)
	}
	return resp.Businesses, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
