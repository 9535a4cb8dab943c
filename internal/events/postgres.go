package events

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/chrisdamba/foodiq/internal/repositories/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventsSchema = `
CREATE TABLE IF NOT EXISTS fact_search (
    id           BIGSERIAL PRIMARY KEY,
    "timestamp"  BIGINT NOT NULL,
    event_type   TEXT NOT NULL,
    provider     TEXT NOT NULL,
    term         TEXT NOT NULL,
    location     TEXT NOT NULL,
    "limit"      INTEGER NOT NULL,
    result_count INTEGER NOT NULL,
    failed       BOOLEAN NOT NULL
);
CREATE TABLE IF NOT EXISTS fact_view (
    id            BIGSERIAL PRIMARY KEY,
    "timestamp"   BIGINT NOT NULL,
    event_type    TEXT NOT NULL,
    provider      TEXT NOT NULL,
    restaurant_id TEXT NOT NULL,
    found         BOOLEAN NOT NULL,
    failed        BOOLEAN NOT NULL
);
`

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresPublisher inserts each event as a row of the table its topic maps
// to. Event keys become snake_case columns.
type PostgresPublisher struct {
	db   execer
	pool *pgxpool.Pool
}

func NewPostgresPublisher(ctx context.Context, databaseURL string) (*PostgresPublisher, error) {
	pool, err := postgres.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, eventsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create event tables: %w", err)
	}
	return &PostgresPublisher{db: pool, pool: pool}, nil
}

func (p *PostgresPublisher) WriteMessage(topic string, msg []byte) error {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}

	table := topicToTable(topic)

	cols, vals, placeholders := buildInsertComponents(event)
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{table}.Sanitize(),
		cols,
		placeholders,
	)

	if _, err := p.db.Exec(context.Background(), query, vals...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (p *PostgresPublisher) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func topicToTable(topic string) string {
	tableMap := map[string]string{
		models.TopicSearches: "fact_search",
		models.TopicViews:    "fact_view",
	}

	if table, ok := tableMap[topic]; ok {
		return table
	}
	// unknown topics get a fact table named after them
	return "fact_" + strings.TrimSuffix(topic, "_events")
}

func buildInsertComponents(event map[string]interface{}) (string, []interface{}, string) {
	// sorted keys keep the generated statement stable
	keys := make([]string, 0, len(event))
	for k := range event {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	columns := make([]string, 0, len(keys))
	values := make([]interface{}, 0, len(keys))
	placeholders := make([]string, 0, len(keys))

	for _, key := range keys {
		switch v := event[key].(type) {
		case float64:
			// JSON numbers arrive as float64; whole numbers go to integer columns
			if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
				values = append(values, int64(v))
			} else {
				values = append(values, v)
			}
		case map[string]interface{}, []interface{}:
			raw, err := json.Marshal(v)
			if err != nil {
				continue
			}
			values = append(values, string(raw))
		default:
			values = append(values, v)
		}

		columns = append(columns, pgx.Identifier{snakeCaseKey(key)}.Sanitize())
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(values)))
	}

	return strings.Join(columns, ", "),
		values,
		strings.Join(placeholders, ", ")
}

func snakeCaseKey(key string) string {
	var result strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}
