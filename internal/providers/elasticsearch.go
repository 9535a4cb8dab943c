package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

const businessMapping = `{
	"mappings": {
		"properties": {
			"seq":           { "type": "long" },
			"id":            { "type": "keyword" },
			"name":          { "type": "keyword" },
			"category_text": { "type": "keyword" },
			"rating":        { "type": "float" },
			"review_count":  { "type": "integer" },
			"price":         { "type": "keyword" },
			"distance":      { "type": "double" },
			"coordinates": {
				"properties": {
					"latitude":  { "type": "double" },
					"longitude": { "type": "double" }
				}
			}
		}
	}
}`

// esDocument is what gets indexed: the business plus fields used for
// matching and ordering.
type esDocument struct {
	models.Business
	Seq          int    `json:"seq"`
	CategoryText string `json:"category_text"`
}

// ElasticsearchProvider serves businesses indexed in Elasticsearch.
type ElasticsearchProvider struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchProvider(client *elasticsearch.Client, index string) *ElasticsearchProvider {
	return &ElasticsearchProvider{client: client, index: index}
}

func NewElasticsearchProviderFromConfig(cfg *models.Config) (*ElasticsearchProvider, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating the elasticsearch client: %w", err)
	}
	return NewElasticsearchProvider(client, cfg.Elasticsearch.Index), nil
}

func (p *ElasticsearchProvider) Name() string {
	return models.ProviderElasticsearch
}

// Search runs a case-insensitive substring match over name and the joined
// category titles, in indexing order.
func (p *ElasticsearchProvider) Search(ctx context.Context, term, location string, limit int) ([]models.Business, error) {
	body, err := json.Marshal(SearchQuery(term, limit))
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Search(
		p.client.Search.WithContext(ctx),
		p.client.Search.WithIndex(p.index),
		p.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("error searching businesses: %s", resp.Status())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source esDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	businesses := make([]models.Business, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		businesses = append(businesses, hit.Source.Business)
	}
	return businesses, nil
}

func (p *ElasticsearchProvider) Business(ctx context.Context, id string) (*models.Business, error) {
	resp, err := p.client.Get(p.index, id, p.client.Get.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("business %q: %w", id, models.ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("error getting business %q: %s", id, resp.Status())
	}

	var result struct {
		Source esDocument `json:"_source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode business %q: %w", id, err)
	}
	return &result.Source.Business, nil
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (p *ElasticsearchProvider) EnsureIndex(ctx context.Context) error {
	exists, err := p.client.Indices.Exists([]string{p.index}, p.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	defer exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	resp, err := p.client.Indices.Create(p.index,
		p.client.Indices.Create.WithContext(ctx),
		p.client.Indices.Create.WithBody(strings.NewReader(businessMapping)),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("error creating index %s: %s", p.index, resp.Status())
	}
	return nil
}

// BulkIndex indexes businesses keeping their slice position as the sort key.
// onIndexed, when set, is called after each successful item.
func (p *ElasticsearchProvider) BulkIndex(ctx context.Context, businesses []models.Business, onIndexed func()) (uint64, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         p.index,
		Client:        p.client,
		NumWorkers:    2,
		FlushInterval: 5 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return 0, fmt.Errorf("error creating the indexer: %w", err)
	}

	var countSuccessful uint64
	for i := range businesses {
		doc := esDocument{
			Business:     businesses[i],
			Seq:          i,
			CategoryText: strings.Join(businesses[i].CategoryTitles(), " "),
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return countSuccessful, fmt.Errorf("cannot encode business %q: %w", doc.ID, err)
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(data),
			OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
				atomic.AddUint64(&countSuccessful, 1)
				if onIndexed != nil {
					onIndexed()
				}
			},
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					log.Printf("Failed to index business %s: %v", item.DocumentID, err)
				} else {
					log.Printf("Failed to index business %s: %s: %s", item.DocumentID, res.Error.Type, res.Error.Reason)
				}
			},
		})
		if err != nil {
			return countSuccessful, fmt.Errorf("unexpected indexer error: %w", err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return countSuccessful, fmt.Errorf("unexpected indexer error: %w", err)
	}
	return atomic.LoadUint64(&countSuccessful), nil
}

// SearchQuery builds the request body for a term search.
func SearchQuery(term string, limit int) map[string]interface{} {
	query := map[string]interface{}{
		"match_all": map[string]interface{}{},
	}
	if term != "" {
		pattern := "*" + escapeWildcard(term) + "*"
		query = map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					wildcard("name", pattern),
					wildcard("category_text", pattern),
				},
				"minimum_should_match": 1,
			},
		}
	}
	return map[string]interface{}{
		"size":  limit,
		"query": query,
		"sort":  []interface{}{map[string]interface{}{"seq": "asc"}},
	}
}

func wildcard(field, pattern string) map[string]interface{} {
	return map[string]interface{}{
		"wildcard": map[string]interface{}{
			field: map[string]interface{}{
				"value":            pattern,
				"case_insensitive": true,
			},
		},
	}
}

func escapeWildcard(term string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(term)
}
