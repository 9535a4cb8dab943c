package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BusinessRepository struct {
	pool *pgxpool.Pool
}

func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

// Connect opens a pool and checks it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

const schema = `
    CREATE TABLE IF NOT EXISTS businesses (
        seq           BIGSERIAL,
        id            TEXT PRIMARY KEY,
        name          TEXT NOT NULL,
        image_url     TEXT,
        rating        DOUBLE PRECISION,
        review_count  INTEGER,
        price         TEXT,
        phone         TEXT,
        display_phone TEXT,
        address1      TEXT,
        city          TEXT,
        state         TEXT,
        zip_code      TEXT,
        latitude      DOUBLE PRECISION,
        longitude     DOUBLE PRECISION,
        categories    TEXT[],
        distance      DOUBLE PRECISION,
        is_closed     BOOLEAN,
        url           TEXT,
        transactions  TEXT[],
        photos        TEXT[],
        is_open_now   BOOLEAN
    );
    CREATE INDEX IF NOT EXISTS businesses_seq_idx ON businesses (seq);
`

const columns = `
    id, name, image_url, rating, review_count, price, phone, display_phone,
    address1, city, state, zip_code, latitude, longitude, categories,
    distance, is_closed, url, transactions, photos, is_open_now
`

const upsert = `
    INSERT INTO businesses (` + columns + `) VALUES (
        $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
    )
    ON CONFLICT (id) DO UPDATE SET
        name = EXCLUDED.name, image_url = EXCLUDED.image_url, rating = EXCLUDED.rating,
        review_count = EXCLUDED.review_count, price = EXCLUDED.price, phone = EXCLUDED.phone,
        display_phone = EXCLUDED.display_phone, address1 = EXCLUDED.address1, city = EXCLUDED.city,
        state = EXCLUDED.state, zip_code = EXCLUDED.zip_code, latitude = EXCLUDED.latitude,
        longitude = EXCLUDED.longitude, categories = EXCLUDED.categories, distance = EXCLUDED.distance,
        is_closed = EXCLUDED.is_closed, url = EXCLUDED.url, transactions = EXCLUDED.transactions,
        photos = EXCLUDED.photos, is_open_now = EXCLUDED.is_open_now
`

func (r *BusinessRepository) CreateSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

func (r *BusinessRepository) BulkCreate(ctx context.Context, businesses []models.Business) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range businesses {
		if _, err = tx.Exec(ctx, upsert, insertArgs(&businesses[i])...); err != nil {
			return fmt.Errorf("failed to insert business %q: %w", businesses[i].ID, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *BusinessRepository) Create(ctx context.Context, business *models.Business) error {
	_, err := r.pool.Exec(ctx, upsert, insertArgs(business)...)
	return err
}

// Search returns businesses whose name or joined category titles contain
// term, in insertion order. An empty term matches every row.
func (r *BusinessRepository) Search(ctx context.Context, term string, limit int) ([]models.Business, error) {
	query := `
        SELECT ` + columns + `
        FROM businesses
        WHERE $1 = ''
           OR name ILIKE '%' || $1 || '%' ESCAPE '\'
           OR array_to_string(categories, ' ') ILIKE '%' || $1 || '%' ESCAPE '\'
        ORDER BY seq
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, query, EscapeLike(term), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := make([]models.Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, rows.Err()
}

func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*models.Business, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM businesses WHERE id = $1`, id)
	b, err := scanBusiness(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("business %q: %w", id, models.ErrNotFound)
	}
	return b, err
}

func (r *BusinessRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM businesses").Scan(&count)
	return count, err
}

func (r *BusinessRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE businesses")
	return err
}

// EscapeLike escapes the LIKE metacharacters so term is matched literally.
func EscapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

func insertArgs(b *models.Business) []interface{} {
	var address1, city, state, zip *string
	if b.Location != nil {
		address1, city, state, zip = b.Location.Address1, b.Location.City, b.Location.State, b.Location.ZipCode
	}
	var lat, lon *float64
	if b.Coordinates != nil {
		lat, lon = b.Coordinates.Latitude, b.Coordinates.Longitude
	}
	var isOpenNow *bool
	if len(b.Hours) > 0 {
		isOpenNow = b.Hours[0].IsOpenNow
	}

	return []interface{}{
		b.ID,
		b.Name,
		b.ImageURL,
		b.Rating,
		b.ReviewCount,
		b.Price,
		b.Phone,
		b.DisplayPhone,
		address1,
		city,
		state,
		zip,
		lat,
		lon,
		b.CategoryTitles(),
		b.Distance,
		b.IsClosed,
		b.URL,
		b.Transactions,
		b.Photos,
		isOpenNow,
	}
}

func scanBusiness(row pgx.Row) (*models.Business, error) {
	b := &models.Business{}
	var (
		location   models.BusinessLocation
		coords     models.BusinessCoordinates
		categories []string
		isOpenNow  *bool
	)
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.ImageURL,
		&b.Rating,
		&b.ReviewCount,
		&b.Price,
		&b.Phone,
		&b.DisplayPhone,
		&location.Address1,
		&location.City,
		&location.State,
		&location.ZipCode,
		&coords.Latitude,
		&coords.Longitude,
		&categories,
		&b.Distance,
		&b.IsClosed,
		&b.URL,
		&b.Transactions,
		&b.Photos,
		&isOpenNow,
	)
	if err != nil {
		return nil, err
	}

	if location != (models.BusinessLocation{}) {
		b.Location = &location
	}
	if coords != (models.BusinessCoordinates{}) {
		b.Coordinates = &coords
	}
	for _, title := range categories {
		b.Categories = append(b.Categories, models.Category{Title: title})
	}
	if isOpenNow != nil {
		b.Hours = []models.Hours{{IsOpenNow: isOpenNow}}
	}
	return b, nil
}
