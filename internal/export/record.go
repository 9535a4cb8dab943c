package export

import (
	"strconv"
	"strings"

	"github.com/chrisdamba/foodiq/internal/models"
)

// Record is the flat row written by every format.
type Record struct {
	ID          string   `json:"id" parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name        string   `json:"name" parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Image       string   `json:"image" parquet:"name=image, type=BYTE_ARRAY, convertedtype=UTF8"`
	Rating      float64  `json:"rating" parquet:"name=rating, type=DOUBLE"`
	ReviewCount int32    `json:"reviewCount" parquet:"name=review_count, type=INT32"`
	Price       string   `json:"price" parquet:"name=price, type=BYTE_ARRAY, convertedtype=UTF8"`
	Phone       string   `json:"phone" parquet:"name=phone, type=BYTE_ARRAY, convertedtype=UTF8"`
	Address     string   `json:"address" parquet:"name=address, type=BYTE_ARRAY, convertedtype=UTF8"`
	Latitude    *float64 `json:"latitude,omitempty" parquet:"name=latitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	Longitude   *float64 `json:"longitude,omitempty" parquet:"name=longitude, type=DOUBLE, repetitiontype=OPTIONAL"`
	Categories  string   `json:"categories" parquet:"name=categories, type=BYTE_ARRAY, convertedtype=UTF8"`
	Distance    *string  `json:"distance,omitempty" parquet:"name=distance_miles, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	IsClosed    bool     `json:"isClosed" parquet:"name=is_closed, type=BOOLEAN"`
	URL         string   `json:"url" parquet:"name=url, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// categorySeparator joins category labels inside a single column.
const categorySeparator = "|"

func NewRecord(s models.RestaurantSummary) Record {
	r := Record{
		ID:          s.ID,
		Name:        s.Name,
		Image:       s.Image,
		Rating:      s.Rating,
		ReviewCount: int32(s.ReviewCount),
		Price:       s.Price,
		Phone:       s.Phone,
		Address:     s.Address,
		Categories:  strings.Join(s.Categories, categorySeparator),
		Distance:    s.Distance,
		IsClosed:    s.IsClosed,
		URL:         s.URL,
	}
	if s.Coordinates != nil {
		lat, lon := s.Coordinates.Latitude, s.Coordinates.Longitude
		r.Latitude, r.Longitude = &lat, &lon
	}
	return r
}

var csvHeader = []string{
	"id", "name", "image", "rating", "review_count", "price", "phone", "address",
	"latitude", "longitude", "categories", "distance_miles", "is_closed", "url",
}

func (r Record) csvRow() []string {
	return []string{
		r.ID,
		r.Name,
		r.Image,
		strconv.FormatFloat(r.Rating, 'f', -1, 64),
		strconv.Itoa(int(r.ReviewCount)),
		r.Price,
		r.Phone,
		r.Address,
		optionalFloat(r.Latitude),
		optionalFloat(r.Longitude),
		r.Categories,
		optionalString(r.Distance),
		strconv.FormatBool(r.IsClosed),
		r.URL,
	}
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
