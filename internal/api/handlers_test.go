package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/chrisdamba/foodiq/internal/providers"
	"github.com/chrisdamba/foodiq/internal/service"
	"github.com/google/go-cmp/cmp"
)

func localHandler(t *testing.T, apiCfg models.APIConfig) http.Handler {
	t.Helper()
	cfg := &models.Config{DefaultLocation: models.DefaultLocation, DefaultLimit: models.DefaultLimit}
	svc := service.NewQueryService(cfg, providers.NewLocalProvider(providers.Fixtures(), 0, 0), nil)
	return NewHandler(apiCfg, svc, models.ProviderLocal)
}

func get(t *testing.T, h http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func summaryIDs(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var got []models.RestaurantSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestSearchEndpoint(t *testing.T) {
	h := localHandler(t, models.APIConfig{})

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{name: "term", target: "/api/restaurants?term=pizza", want: []string{"r1", "r6"}},
		{name: "limit", target: "/api/restaurants?term=pizza&limit=1", want: []string{"r1"}},
		{name: "zero limit", target: "/api/restaurants?limit=0", want: []string{}},
		{name: "no match", target: "/api/restaurants?term=zzzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %s", ct)
			}
			if diff := cmp.Diff(tt.want, summaryIDs(t, rec)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchEndpointBadLimit(t *testing.T) {
	h := localHandler(t, models.APIConfig{})
	for _, target := range []string{"/api/restaurants?limit=abc", "/api/restaurants?limit=-3"} {
		if rec := get(t, h, target, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, rec.Code)
		}
	}
}

func TestCategoryEndpoint(t *testing.T) {
	h := localHandler(t, models.APIConfig{})
	rec := get(t, h, "/api/categories/Japanese", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if diff := cmp.Diff([]string{"r2"}, summaryIDs(t, rec)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDetailsEndpoint(t *testing.T) {
	h := localHandler(t, models.APIConfig{})

	rec := get(t, h, "/api/restaurants/r1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var d models.RestaurantDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d.ID != "r1" || d.Name != "Tony's Pizza" || !d.Delivery || !d.Pickup || d.Reservations {
		t.Errorf("unexpected detail %+v", d)
	}

	rec = get(t, h, "/api/restaurants/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", rec.Code)
	}
	var e errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatal(err)
	}
	if e.Error != models.MessageNoResults {
		t.Errorf("error = %q, want %q", e.Error, models.MessageNoResults)
	}
}

type failingService struct {
	err error
}

func (f failingService) Search(context.Context, string, string, int) ([]models.RestaurantSummary, error) {
	return nil, f.err
}

func (f failingService) SearchByCategory(context.Context, string, string) ([]models.RestaurantSummary, error) {
	return nil, f.err
}

func (f failingService) GetByID(context.Context, string) (*models.RestaurantDetail, bool, error) {
	return nil, false, f.err
}

func TestServiceFailuresAreNeutral(t *testing.T) {
	for _, err := range []error{models.ErrProviderFailure, models.ErrMalformedRecord, errors.New("boom")} {
		h := NewHandler(models.APIConfig{}, failingService{err: err}, "fake")
		for _, target := range []string{"/api/restaurants?term=x", "/api/restaurants/r1", "/api/categories/Thai"} {
			rec := get(t, h, target, nil)
			if rec.Code != http.StatusBadGateway {
				t.Errorf("%v %s status = %d, want 502", err, target, rec.Code)
			}
			var e errorResponse
			if jsonErr := json.Unmarshal(rec.Body.Bytes(), &e); jsonErr != nil {
				t.Fatal(jsonErr)
			}
			if e.Error != models.MessageTryAgain {
				t.Errorf("%v %s error = %q", err, target, e.Error)
			}
		}
	}
}

func TestHealthz(t *testing.T) {
	h := localHandler(t, models.APIConfig{JWTSecret: "s3cret"})
	rec := get(t, h, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["provider"] != models.ProviderLocal {
		t.Errorf("provider = %q", body["provider"])
	}
}

func TestAuthRequired(t *testing.T) {
	secret := "s3cret"
	h := localHandler(t, models.APIConfig{JWTSecret: secret})

	if rec := get(t, h, "/api/restaurants?term=pizza", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	bad := http.Header{"Authorization": {"Bearer not-a-token"}}
	if rec := get(t, h, "/api/restaurants?term=pizza", bad); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", rec.Code)
	}

	otherKey, err := CreateToken([]byte("other"), "cli", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	wrong := http.Header{"Authorization": {"Bearer " + otherKey}}
	if rec := get(t, h, "/api/restaurants?term=pizza", wrong); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key status = %d, want 401", rec.Code)
	}

	token, err := CreateToken([]byte(secret), "cli", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	ok := http.Header{"Authorization": {"Bearer " + token}}
	if rec := get(t, h, "/api/restaurants?term=pizza", ok); rec.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", rec.Code)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	token, err := CreateToken(secret, "mobile-app", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	client, err := ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if client != "mobile-app" {
		t.Errorf("client = %s", client)
	}

	expired, err := CreateToken(secret, "mobile-app", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateToken(secret, expired); err == nil {
		t.Error("expired token validated")
	}

	if _, err := CreateToken(nil, "x", time.Minute); err == nil {
		t.Error("CreateToken() without secret should fail")
	}
}

func TestCORS(t *testing.T) {
	h := localHandler(t, models.APIConfig{AllowedOrigins: []string{"http://localhost:3000"}})

	rec := get(t, h, "/api/restaurants?limit=1", http.Header{"Origin": {"http://localhost:3000"}})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allowed origin header = %q", got)
	}

	rec = get(t, h, "/api/restaurants?limit=1", http.Header{"Origin": {"http://evil.example.com"}})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("disallowed origin got header %q", got)
	}
}
