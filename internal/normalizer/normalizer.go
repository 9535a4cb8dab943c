// Package normalizer reshapes provider business records into the display
// schema shared by list and detail views.
package normalizer

import (
	"fmt"
	"log"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/chrisdamba/foodiq/internal/models"
)

// ToSummary maps a business to its list-view shape. It only fails when the
// record has no id or no name.
func ToSummary(b *models.Business) (models.RestaurantSummary, error) {
	if err := validate(b); err != nil {
		return models.RestaurantSummary{}, err
	}

	return models.RestaurantSummary{
		ID:          b.ID,
		Name:        b.Name,
		Image:       deref(b.ImageURL),
		Rating:      derefFloat(b.Rating),
		ReviewCount: derefInt(b.ReviewCount),
		Price:       Price(b.Price),
		Phone:       deref(b.Phone),
		Address:     FormatAddress(b.Location),
		Coordinates: coordinates(b.Coordinates),
		Categories:  b.CategoryTitles(),
		Distance:    Distance(b.Distance),
		IsClosed:    b.IsClosed != nil && *b.IsClosed,
		URL:         deref(b.URL),
	}, nil
}

// ToDetail maps a business to the expanded single-restaurant shape.
func ToDetail(b *models.Business) (models.RestaurantDetail, error) {
	summary, err := ToSummary(b)
	if err != nil {
		return models.RestaurantDetail{}, err
	}

	phone := deref(b.DisplayPhone)
	if phone == "" {
		phone = summary.Phone
	}
	summary.Phone = phone

	transactions := b.Transactions
	if transactions == nil {
		transactions = []string{}
	}
	photos := b.Photos
	if photos == nil {
		photos = []string{}
	}

	return models.RestaurantDetail{
		RestaurantSummary: summary,
		Photos:            photos,
		Hours:             Hours(b.Hours),
		Transactions:      transactions,
		Specialties:       strings.Join(summary.Categories, ", "),
		Delivery:          slices.Contains(transactions, models.TransactionDelivery),
		Pickup:            slices.Contains(transactions, models.TransactionPickup),
		Reservations:      slices.Contains(transactions, models.TransactionReservation),
	}, nil
}

// ToSummaries maps a result set, dropping records that cannot be normalized.
func ToSummaries(businesses []models.Business) []models.RestaurantSummary {
	summaries := make([]models.RestaurantSummary, 0, len(businesses))
	for i := range businesses {
		summary, err := ToSummary(&businesses[i])
		if err != nil {
			log.Printf("Dropping record %d from results: %v", i, err)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// FormatAddress renders "address1, city, state zip". Missing parts are left
// empty rather than replaced with placeholder text.
func FormatAddress(loc *models.BusinessLocation) string {
	if loc == nil {
		loc = &models.BusinessLocation{}
	}
	return strings.TrimSpace(fmt.Sprintf("%s, %s, %s %s",
		deref(loc.Address1), deref(loc.City), deref(loc.State), deref(loc.ZipCode)))
}

// MetersToMiles converts and rounds to two decimal places.
func MetersToMiles(meters float64) float64 {
	return math.Round(meters/models.MetersPerMile*100) / 100
}

// Distance formats a provider distance in meters as miles with two decimals.
func Distance(meters *float64) *string {
	if meters == nil {
		return nil
	}
	s := strconv.FormatFloat(MetersToMiles(*meters), 'f', 2, 64)
	return &s
}

// Price passes the tier through, or returns the unknown sentinel.
func Price(price *string) string {
	if price == nil || *price == "" {
		return models.PriceUnknown
	}
	return *price
}

// Hours collapses a schedule to "Open Now" or "Closed" using only the first
// entry's current-status flag.
func Hours(hours []models.Hours) string {
	if len(hours) > 0 && hours[0].IsOpenNow != nil && *hours[0].IsOpenNow {
		return models.HoursOpenNow
	}
	return models.HoursClosed
}

func validate(b *models.Business) error {
	if b == nil {
		return fmt.Errorf("%w: nil record", models.ErrMalformedRecord)
	}
	if strings.TrimSpace(b.ID) == "" {
		return fmt.Errorf("%w: missing id (name %q)", models.ErrMalformedRecord, b.Name)
	}
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: missing name (id %q)", models.ErrMalformedRecord, b.ID)
	}
	return nil
}

func coordinates(c *models.BusinessCoordinates) *models.Coordinates {
	if c == nil || (c.Latitude == nil && c.Longitude == nil) {
		return nil
	}
	return &models.Coordinates{
		Latitude:  derefFloat(c.Latitude),
		Longitude: derefFloat(c.Longitude),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
