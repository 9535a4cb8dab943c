package factories

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/chrisdamba/foodiq/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

var fake = faker.New()

// Area is the circle generated businesses are placed in.
type Area struct {
	City      string
	State     string
	CenterLat float64
	CenterLon float64
	RadiusKm  float64
}

// NewYork is the area used when no other is given.
var NewYork = Area{City: "New York", State: "NY", CenterLat: 40.7128, CenterLon: -74.0060, RadiusKm: 10}

type BusinessFactory struct {
	slugCache sync.Map // to track used slugs
}

// CreateBusiness returns a plausible, fully populated business inside area.
func (bf *BusinessFactory) CreateBusiness(area Area) models.Business {
	latRange := area.RadiusKm / 111.0
	lonRange := latRange / math.Cos(area.CenterLat*math.Pi/180.0)

	lat := area.CenterLat + (rand.Float64()*2-1)*latRange
	lon := area.CenterLon + (rand.Float64()*2-1)*lonRange

	name := fake.Company().Name()
	id := cuid.New()
	slug := bf.createUniqueSlug(name)
	phone := fake.Phone().Number()

	photoCount := fake.IntBetween(0, 3)
	photos := make([]string, 0, photoCount)
	for i := 0; i < photoCount; i++ {
		photos = append(photos, fmt.Sprintf("https://images.foodiq.dev/%s-%d.jpg", id, i+1))
	}

	b := models.Business{
		ID:           id,
		Name:         name,
		ImageURL:     models.String("https://images.foodiq.dev/" + id + ".jpg"),
		Rating:       models.Float(float64(fake.IntBetween(2, 10)) / 2),
		ReviewCount:  models.Int(fake.IntBetween(0, 2500)),
		Phone:        models.String(phone),
		DisplayPhone: models.String(phone),
		Location: &models.BusinessLocation{
			Address1: models.String(fake.Address().StreetAddress()),
			City:     models.String(area.City),
			State:    models.String(area.State),
			ZipCode:  models.String(fake.Address().PostCode()),
		},
		Coordinates: &models.BusinessCoordinates{
			Latitude:  models.Float(lat),
			Longitude: models.Float(lon),
		},
		Categories:   generateRandomCategories(),
		Distance:     models.Float(math.Round(haversineMeters(area.CenterLat, area.CenterLon, lat, lon)*100) / 100),
		IsClosed:     models.Bool(rand.Float64() < 0.05),
		URL:          models.String("https://foodiq.dev/biz/" + slug),
		Transactions: generateRandomTransactions(),
		Photos:       photos,
		Hours:        []models.Hours{{HoursType: "REGULAR", IsOpenNow: models.Bool(fake.Bool())}},
	}
	// roughly one in ten places has no price level
	if rand.Intn(10) > 0 {
		b.Price = models.String(strings.Repeat("$", fake.IntBetween(1, 4)))
	}
	return b
}

// CreateBusinesses returns n businesses with distinct slugs.
func (bf *BusinessFactory) CreateBusinesses(area Area, n int) []models.Business {
	businesses := make([]models.Business, 0, n)
	for i := 0; i < n; i++ {
		businesses = append(businesses, bf.CreateBusiness(area))
	}
	return businesses
}

func (bf *BusinessFactory) createUniqueSlug(name string) string {
	base := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, base)

	slug := base
	counter := 1

	for {
		if _, exists := bf.slugCache.LoadOrStore(slug, true); !exists {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}

var allCategories = []string{
	"Italian", "Pizza", "Cafes", "Indian", "American (New)", "Japanese", "Sushi Bars", "Mexican", "Tacos",
	"Caribbean", "Chinese", "Dim Sum", "Thai", "Vietnamese", "Greek", "French", "Mediterranean",
	"Moroccan", "Fast Food", "Vegan", "Salad", "Barbeque", "Noodles", "Wine Bars",
}

func generateRandomCategories() []models.Category {
	count := rand.Intn(3) + 1 // 1 to 3 categories
	seen := make(map[string]bool, count)
	categories := make([]models.Category, 0, count)
	for len(categories) < count {
		title := allCategories[rand.Intn(len(allCategories))]
		if seen[title] {
			continue
		}
		seen[title] = true
		categories = append(categories, models.Category{Alias: categoryAlias(title), Title: title})
	}
	return categories
}

func categoryAlias(title string) string {
	alias := strings.ToLower(title)
	alias = strings.NewReplacer(" ", "", "(", "", ")", "").Replace(alias)
	return alias
}

func generateRandomTransactions() []string {
	transactions := make([]string, 0, 3)
	for _, t := range []string{models.TransactionDelivery, models.TransactionPickup, models.TransactionReservation} {
		if fake.Bool() {
			transactions = append(transactions, t)
		}
	}
	return transactions
}

const earthRadiusMeters = 6371000.0

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
