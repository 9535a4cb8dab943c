package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chrisdamba/foodiq/internal/events"
	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/chrisdamba/foodiq/internal/normalizer"
	"github.com/chrisdamba/foodiq/internal/providers"
)

// QueryService answers restaurant searches and detail lookups from a single
// provider. It keeps no state between calls, so concurrent use is safe as long
// as the provider and publisher are.
type QueryService struct {
	provider        providers.Provider
	publisher       events.Publisher
	defaultLocation string
	defaultLimit    int
	now             func() time.Time
}

func NewQueryService(cfg *models.Config, provider providers.Provider, publisher events.Publisher) *QueryService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	location := cfg.DefaultLocation
	if strings.TrimSpace(location) == "" {
		location = models.DefaultLocation
	}
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = models.DefaultLimit
	}
	return &QueryService{
		provider:        provider,
		publisher:       publisher,
		defaultLocation: location,
		defaultLimit:    limit,
		now:             time.Now,
	}
}

// ProviderName is the name of the backing provider.
func (s *QueryService) ProviderName() string {
	return s.provider.Name()
}

// Search returns at most limit summaries matching term near location. An
// empty term matches everything, a blank location falls back to the default
// and a negative limit means the default limit.
func (s *QueryService) Search(ctx context.Context, term, location string, limit int) ([]models.RestaurantSummary, error) {
	if strings.TrimSpace(location) == "" {
		location = s.defaultLocation
	}
	if limit < 0 {
		limit = s.defaultLimit
	}

	results, err := s.search(ctx, term, location, limit)
	s.publish(models.TopicSearches, models.SearchEvent{
		Timestamp:   s.now().Unix(),
		EventType:   "search",
		Provider:    s.provider.Name(),
		Term:        term,
		Location:    location,
		Limit:       limit,
		ResultCount: len(results),
		Failed:      err != nil,
	})
	return results, err
}

func (s *QueryService) search(ctx context.Context, term, location string, limit int) ([]models.RestaurantSummary, error) {
	if limit == 0 {
		return []models.RestaurantSummary{}, nil
	}

	businesses, err := s.provider.Search(ctx, term, location, limit)
	if err != nil {
		return nil, s.collapse("search", err)
	}

	summaries := normalizer.ToSummaries(businesses)
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// SearchByCategory searches with the category as the term and the default
// limit.
func (s *QueryService) SearchByCategory(ctx context.Context, category, location string) ([]models.RestaurantSummary, error) {
	return s.Search(ctx, category, location, s.defaultLimit)
}

// GetByID returns the detail record for id. found is false when no record
// has that id; err is only set for malformed records and provider failures.
func (s *QueryService) GetByID(ctx context.Context, id string) (detail *models.RestaurantDetail, found bool, err error) {
	defer func() {
		s.publish(models.TopicViews, models.ViewEvent{
			Timestamp:    s.now().Unix(),
			EventType:    "view",
			Provider:     s.provider.Name(),
			RestaurantID: id,
			Found:        found,
			Failed:       err != nil,
		})
	}()

	if strings.TrimSpace(id) == "" {
		return nil, false, nil
	}

	business, err := s.provider.Business(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, s.collapse("details", err)
	}

	d, err := normalizer.ToDetail(business)
	if err != nil {
		log.Printf("Restaurant %q could not be normalized: %v", id, err)
		return nil, false, fmt.Errorf("restaurant %q: %w", id, models.ErrMalformedRecord)
	}
	return &d, true, nil
}

// collapse logs the provider error and returns the opaque failure. Provider
// error types never leave the service.
func (s *QueryService) collapse(op string, err error) error {
	log.Printf("Provider %s %s failed: %v", s.provider.Name(), op, err)
	return models.ErrProviderFailure
}

func (s *QueryService) publish(topic string, event interface{}) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", topic, err)
		return
	}
	if err := s.publisher.WriteMessage(topic, msg); err != nil {
		log.Printf("Failed to publish %s event: %v", topic, err)
	}
}
