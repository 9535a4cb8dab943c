package service

import (
	"context"
	"sync"

	"github.com/chrisdamba/foodiq/internal/models"
)

// Searcher is the part of QueryService a Session needs.
type Searcher interface {
	Search(ctx context.Context, term, location string, limit int) ([]models.RestaurantSummary, error)
}

// Session holds the result of the most recent search for one consumer, such
// as a terminal prompt. Searches may overlap; a response is only committed if
// no newer search was started after it, so a slow older response can never
// replace a newer one.
type Session struct {
	searcher Searcher

	mu        sync.Mutex
	issued    uint64
	committed uint64
	results   []models.RestaurantSummary
	err       error
}

func NewSession(searcher Searcher) *Session {
	return &Session{searcher: searcher}
}

// Search runs a search and commits it unless it has been superseded. stale
// reports whether the result was discarded.
func (s *Session) Search(ctx context.Context, term, location string, limit int) (results []models.RestaurantSummary, stale bool, err error) {
	s.mu.Lock()
	s.issued++
	generation := s.issued
	s.mu.Unlock()

	results, err = s.searcher.Search(ctx, term, location, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.issued || generation <= s.committed {
		return results, true, err
	}
	s.committed = generation
	s.results = results
	s.err = err
	return results, false, err
}

// Current returns the last committed results and error.
func (s *Session) Current() ([]models.RestaurantSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results, s.err
}
