package service

import (
	"context"
	"sync"
	"testing"

	"github.com/chrisdamba/foodiq/internal/models"
)

// gatedSearcher blocks each search until its term's gate is released.
type gatedSearcher struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	started chan string
}

func newGatedSearcher(terms ...string) *gatedSearcher {
	g := &gatedSearcher{gates: map[string]chan struct{}{}, started: make(chan string, len(terms))}
	for _, term := range terms {
		g.gates[term] = make(chan struct{})
	}
	return g
}

func (g *gatedSearcher) Search(ctx context.Context, term, location string, limit int) ([]models.RestaurantSummary, error) {
	g.mu.Lock()
	gate := g.gates[term]
	g.mu.Unlock()

	g.started <- term
	<-gate
	return []models.RestaurantSummary{{ID: term, Name: term}}, nil
}

func TestSessionDiscardsStaleResponse(t *testing.T) {
	searcher := newGatedSearcher("old", "new")
	session := NewSession(searcher)
	ctx := context.Background()

	type outcome struct {
		stale bool
		id    string
	}
	oldDone := make(chan outcome, 1)
	go func() {
		res, stale, _ := session.Search(ctx, "old", "", 5)
		oldDone <- outcome{stale, res[0].ID}
	}()
	<-searcher.started

	newDone := make(chan outcome, 1)
	go func() {
		res, stale, _ := session.Search(ctx, "new", "", 5)
		newDone <- outcome{stale, res[0].ID}
	}()
	<-searcher.started

	// the newer search answers first, then the older one arrives late
	close(searcher.gates["new"])
	if got := <-newDone; got.stale {
		t.Errorf("newer search reported stale: %+v", got)
	}
	close(searcher.gates["old"])
	if got := <-oldDone; !got.stale {
		t.Errorf("older search was committed: %+v", got)
	}

	current, err := session.Current()
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if len(current) != 1 || current[0].ID != "new" {
		t.Errorf("Current() = %+v, want the newer result", current)
	}
}

func TestSessionOlderResponseBeforeNewerIsStillStale(t *testing.T) {
	searcher := newGatedSearcher("first", "second")
	session := NewSession(searcher)
	ctx := context.Background()

	firstDone := make(chan bool, 1)
	go func() {
		_, stale, _ := session.Search(ctx, "first", "", 5)
		firstDone <- stale
	}()
	<-searcher.started

	secondDone := make(chan bool, 1)
	go func() {
		_, stale, _ := session.Search(ctx, "second", "", 5)
		secondDone <- stale
	}()
	<-searcher.started

	close(searcher.gates["first"])
	if stale := <-firstDone; !stale {
		t.Error("first search should be stale once a second search started")
	}
	close(searcher.gates["second"])
	if stale := <-secondDone; stale {
		t.Error("second search should be committed")
	}

	current, _ := session.Current()
	if len(current) != 1 || current[0].ID != "second" {
		t.Errorf("Current() = %+v", current)
	}
}

func TestSessionSequentialSearches(t *testing.T) {
	svc := NewQueryService(defaultConfig(), &fakeProvider{businesses: []models.Business{{ID: "a", Name: "A"}}}, nil)
	session := NewSession(svc)

	for i := 0; i < 3; i++ {
		res, stale, err := session.Search(context.Background(), "", "", 5)
		if err != nil || stale || len(res) != 1 {
			t.Fatalf("Search #%d = %v, %v, %v", i, res, stale, err)
		}
	}
}
