package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/chrisdamba/foodiq/internal/providers"
	"github.com/google/go-cmp/cmp"
)

type fakeProvider struct {
	businesses []models.Business
	err        error

	gotTerm     string
	gotLocation string
	gotLimit    int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Search(ctx context.Context, term, location string, limit int) ([]models.Business, error) {
	f.gotTerm, f.gotLocation, f.gotLimit = term, location, limit
	if f.err != nil {
		return nil, f.err
	}
	return f.businesses, nil
}

func (f *fakeProvider) Business(ctx context.Context, id string) (*models.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.businesses {
		if f.businesses[i].ID == id {
			return &f.businesses[i], nil
		}
	}
	return nil, models.ErrNotFound
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func (r *recordingPublisher) WriteMessage(topic string, msg []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.messages == nil {
		r.messages = map[string][][]byte{}
	}
	r.messages[topic] = append(r.messages[topic], msg)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func summaryIDs(summaries []models.RestaurantSummary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.ID)
	}
	return out
}

func defaultConfig() *models.Config {
	return &models.Config{DefaultLocation: models.DefaultLocation, DefaultLimit: models.DefaultLimit}
}

func TestSearchScenarioWithLocalProvider(t *testing.T) {
	dataset := []models.Business{{
		ID:         "r1",
		Name:       "Tony's Pizza",
		Rating:     models.Float(4.5),
		Categories: []models.Category{{Title: "Pizza"}, {Title: "Italian"}},
	}}
	svc := NewQueryService(defaultConfig(), providers.NewLocalProvider(dataset, 0, 0), nil)

	got, err := svc.Search(context.Background(), "pizza", "", 20)
	if err != nil {
		t.Fatalf("Search(pizza) error = %v", err)
	}
	if diff := cmp.Diff([]string{"r1"}, summaryIDs(got)); diff != "" {
		t.Errorf("Search(pizza) mismatch (-want +got):\n%s", diff)
	}

	got, err = svc.Search(context.Background(), "sushi", "", 20)
	if err != nil {
		t.Fatalf("Search(sushi) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search(sushi) = %v, want empty", summaryIDs(got))
	}
}

func TestSearchNeverExceedsLimit(t *testing.T) {
	svc := NewQueryService(defaultConfig(), providers.NewLocalProvider(providers.Fixtures(), 0, 0), nil)
	total := len(providers.Fixtures())

	for limit := 0; limit <= total+2; limit++ {
		got, err := svc.Search(context.Background(), "", "", limit)
		if err != nil {
			t.Fatalf("Search(limit=%d) error = %v", limit, err)
		}
		if len(got) > limit {
			t.Errorf("Search(limit=%d) returned %d results", limit, len(got))
		}
		want := limit
		if want > total {
			want = total
		}
		if len(got) != want {
			t.Errorf("Search(limit=%d) returned %d results, want %d", limit, len(got), want)
		}
	}
}

func TestSearchTruncatesOversizedProviderResponse(t *testing.T) {
	p := &fakeProvider{businesses: []models.Business{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}}
	svc := NewQueryService(defaultConfig(), p, nil)

	got, err := svc.Search(context.Background(), "", "Boston", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, summaryIDs(got)); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchDefaults(t *testing.T) {
	p := &fakeProvider{}
	svc := NewQueryService(&models.Config{}, p, nil)

	if _, err := svc.Search(context.Background(), "tacos", "   ", -1); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if p.gotLocation != models.DefaultLocation {
		t.Errorf("location = %q, want %q", p.gotLocation, models.DefaultLocation)
	}
	if p.gotLimit != models.DefaultLimit {
		t.Errorf("limit = %d, want %d", p.gotLimit, models.DefaultLimit)
	}
	if p.gotTerm != "tacos" {
		t.Errorf("term = %q", p.gotTerm)
	}
}

func TestSearchZeroLimitSkipsProvider(t *testing.T) {
	p := &fakeProvider{err: errors.New("should not be called")}
	svc := NewQueryService(defaultConfig(), p, nil)

	got, err := svc.Search(context.Background(), "pizza", "", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Search() = %#v, want empty slice", got)
	}
}

func TestSearchDropsMalformedRecords(t *testing.T) {
	p := &fakeProvider{businesses: []models.Business{{ID: "a", Name: "A"}, {ID: "", Name: "Nameless id"}, {ID: "c"}}}
	svc := NewQueryService(defaultConfig(), p, nil)

	got, err := svc.Search(context.Background(), "", "", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, summaryIDs(got)); diff != "" {
		t.Errorf("Search() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchCollapsesProviderErrors(t *testing.T) {
	providerErr := errors.New("dial tcp 10.0.0.1:443: connection refused")
	svc := NewQueryService(defaultConfig(), &fakeProvider{err: providerErr}, nil)

	_, err := svc.Search(context.Background(), "pizza", "", 10)
	if !errors.Is(err, models.ErrProviderFailure) {
		t.Fatalf("Search() error = %v, want ErrProviderFailure", err)
	}
	if errors.Is(err, providerErr) || strings.Contains(err.Error(), "connection refused") {
		t.Errorf("provider detail leaked to caller: %v", err)
	}
}

func TestSearchRemoteDistanceScenario(t *testing.T) {
	p := &fakeProvider{businesses: []models.Business{{ID: "y1", Name: "Far Away Grill", Distance: models.Float(3218.68)}}}
	svc := NewQueryService(defaultConfig(), p, nil)

	got, err := svc.Search(context.Background(), "grill", "Chicago", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].Distance == nil || *got[0].Distance != "2.00" {
		t.Errorf("Search() = %+v, want distance 2.00", got)
	}
}

func TestSearchByCategory(t *testing.T) {
	p := &fakeProvider{}
	svc := NewQueryService(&models.Config{DefaultLimit: 7}, p, nil)

	if _, err := svc.SearchByCategory(context.Background(), "chinese", "Boston"); err != nil {
		t.Fatalf("SearchByCategory() error = %v", err)
	}
	if p.gotTerm != "chinese" || p.gotLocation != "Boston" || p.gotLimit != 7 {
		t.Errorf("provider called with (%q, %q, %d)", p.gotTerm, p.gotLocation, p.gotLimit)
	}
}

func TestGetByID(t *testing.T) {
	p := &fakeProvider{businesses: []models.Business{
		{ID: "r1", Name: "Tony's Pizza", Transactions: []string{"delivery"}},
		{ID: "broken"},
	}}
	svc := NewQueryService(defaultConfig(), p, nil)
	ctx := context.Background()

	detail, found, err := svc.GetByID(ctx, "r1")
	if err != nil || !found {
		t.Fatalf("GetByID(r1) = %v, %v, %v", detail, found, err)
	}
	if detail.Name != "Tony's Pizza" || !detail.Delivery || detail.Hours != models.HoursClosed {
		t.Errorf("GetByID(r1) = %+v", detail)
	}

	detail, found, err = svc.GetByID(ctx, "unknown")
	if err != nil || found || detail != nil {
		t.Errorf("GetByID(unknown) = %v, %v, %v; want nil, false, nil", detail, found, err)
	}

	detail, found, err = svc.GetByID(ctx, "")
	if err != nil || found || detail != nil {
		t.Errorf("GetByID(\"\") = %v, %v, %v; want nil, false, nil", detail, found, err)
	}

	_, found, err = svc.GetByID(ctx, "broken")
	if found || !errors.Is(err, models.ErrMalformedRecord) {
		t.Errorf("GetByID(broken) = %v, %v; want ErrMalformedRecord", found, err)
	}
}

func TestGetByIDWrappedNotFound(t *testing.T) {
	svc := NewQueryService(defaultConfig(), providers.NewLocalProvider(nil, 0, 0), nil)
	detail, found, err := svc.GetByID(context.Background(), "r404")
	if err != nil || found || detail != nil {
		t.Errorf("GetByID() = %v, %v, %v; want nil, false, nil", detail, found, err)
	}
}

func TestGetByIDProviderFailure(t *testing.T) {
	svc := NewQueryService(defaultConfig(), &fakeProvider{err: errors.New("boom")}, nil)
	_, found, err := svc.GetByID(context.Background(), "r1")
	if found || !errors.Is(err, models.ErrProviderFailure) {
		t.Errorf("GetByID() = %v, %v; want ErrProviderFailure", found, err)
	}
}

func TestEventsArePublished(t *testing.T) {
	pub := &recordingPublisher{}
	p := &fakeProvider{businesses: []models.Business{{ID: "r1", Name: "Tony's Pizza"}}}
	svc := NewQueryService(defaultConfig(), p, pub)

	if _, err := svc.Search(context.Background(), "pizza", "", 5); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.GetByID(context.Background(), "missing"); err != nil {
		t.Fatal(err)
	}

	if len(pub.messages[models.TopicSearches]) != 1 || len(pub.messages[models.TopicViews]) != 1 {
		t.Fatalf("published %v", pub.messages)
	}

	var search models.SearchEvent
	if err := json.Unmarshal(pub.messages[models.TopicSearches][0], &search); err != nil {
		t.Fatal(err)
	}
	if search.Term != "pizza" || search.Location != models.DefaultLocation || search.ResultCount != 1 || search.Provider != "fake" {
		t.Errorf("search event = %+v", search)
	}

	var view models.ViewEvent
	if err := json.Unmarshal(pub.messages[models.TopicViews][0], &view); err != nil {
		t.Fatal(err)
	}
	if view.RestaurantID != "missing" || view.Found || view.Failed {
		t.Errorf("view event = %+v", view)
	}
}
