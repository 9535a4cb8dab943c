package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/chrisdamba/foodiq/internal/models"
)

// yelpMaxLimit is the largest page the business search endpoint accepts.
const yelpMaxLimit = 50

// YelpProvider proxies the Yelp Fusion business endpoints.
type YelpProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewYelpProvider(cfg models.YelpConfig, client *http.Client) *YelpProvider {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &YelpProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
	}
}

func (p *YelpProvider) Name() string {
	return models.ProviderYelp
}

// Search asks the provider for the best rated businesses matching term near
// location. The provider's ordering is returned untouched.
func (p *YelpProvider) Search(ctx context.Context, term, location string, limit int) ([]models.Business, error) {
	if limit > yelpMaxLimit {
		limit = yelpMaxLimit
	}
	params := url.Values{}
	params.Set("term", term)
	params.Set("location", location)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort_by", "rating")

	var resp models.SearchResponse
	if err := p.get(ctx, "/businesses/search?"+params.Encode(), &resp); err != nil {
		log.Printf("Error fetching restaurants from Yelp: %v", err)
		return nil, fmt.Errorf("%w: %v", models.ErrProviderFailure, err)
	}
	return resp.Businesses, nil
}

func (p *YelpProvider) Business(ctx context.Context, id string) (*models.Business, error) {
	var b models.Business
	err := p.get(ctx, "/businesses/"+url.PathEscape(id), &b)
	if errors.Is(err, errNotFoundStatus) {
		return nil, fmt.Errorf("business %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		log.Printf("Error fetching restaurant details from Yelp: %v", err)
		return nil, fmt.Errorf("%w: %v", models.ErrProviderFailure, err)
	}
	return &b, nil
}

var errNotFoundStatus = errors.New("status 404")

func (p *YelpProvider) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFoundStatus
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
