package providers

import "github.com/chrisdamba/foodiq/internal/models"

func fixture(id, name, price, address, city, zip string, lat, lon, rating float64, reviews int, distance float64, categories []string, transactions []string, open bool) models.Business {
	cats := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		cats = append(cats, models.Category{Title: c})
	}
	b := models.Business{
		ID:           id,
		Name:         name,
		ImageURL:     models.String("https://images.foodiq.dev/" + id + ".jpg"),
		Rating:       models.Float(rating),
		ReviewCount:  models.Int(reviews),
		Phone:        models.String("+1212555" + zip[1:]),
		DisplayPhone: models.String("(212) 555-" + zip[1:]),
		Location: &models.BusinessLocation{
			Address1: models.String(address),
			City:     models.String(city),
			State:    models.String("NY"),
			ZipCode:  models.String(zip),
		},
		Coordinates: &models.BusinessCoordinates{
			Latitude:  models.Float(lat),
			Longitude: models.Float(lon),
		},
		Categories:   cats,
		Distance:     models.Float(distance),
		IsClosed:     models.Bool(false),
		URL:          models.String("https://www.yelp.com/biz/" + id),
		Transactions: transactions,
		Photos: []string{
			"https://images.foodiq.dev/" + id + "-1.jpg",
			"https://images.foodiq.dev/" + id + "-2.jpg",
		},
		Hours: []models.Hours{{HoursType: "REGULAR", IsOpenNow: models.Bool(open)}},
	}
	if price != "" {
		b.Price = models.String(price)
	}
	return b
}

// Fixtures returns the built-in dataset in its canonical order. Each call
// returns a fresh copy.
func Fixtures() []models.Business {
	return []models.Business{
		fixture("r1", "Tony's Pizza", "$$", "12 Bleecker St", "New York", "10012",
			40.7258, -73.9946, 4.5, 1284, 804.67, []string{"Pizza", "Italian"}, []string{"pickup", "delivery"}, true),
		fixture("r2", "Sakura Sushi Bar", "$$$", "88 Mott St", "New York", "10013",
			40.7167, -73.9973, 4.7, 962, 1609.34, []string{"Sushi Bars", "Japanese"}, []string{"restaurant_reservation"}, true),
		fixture("r3", "Green Bowl", "$", "401 Lafayette St", "New York", "10003",
			40.7290, -73.9916, 4.3, 540, 1207.0, []string{"Vegan", "Salad"}, []string{"delivery"}, false),
		fixture("r4", "Golden Dragon", "$$", "29 Pell St", "New York", "10013",
			40.7149, -73.9980, 4.1, 2210, 2011.68, []string{"Chinese", "Dim Sum"}, []string{"pickup", "delivery"}, true),
		fixture("r5", "Taqueria del Sol", "", "215 E 116th St", "New York", "10029",
			40.7978, -73.9383, 4.6, 388, 9656.04, []string{"Mexican", "Tacos"}, []string{"pickup"}, true),
		fixture("r6", "Brooklyn Slice House", "$", "310 Smith St", "Brooklyn", "11231",
			40.6815, -73.9936, 4.4, 701, 5632.69, []string{"Pizza"}, nil, false),
		fixture("r7", "Curry Corner", "$$", "101 Lexington Ave", "New York", "10016",
			40.7432, -73.9818, 4.2, 845, 3218.68, []string{"Indian", "Vegetarian"}, []string{"delivery", "restaurant_reservation"}, true),
		fixture("r8", "Le Petit Bistro", "$$$$", "52 W 55th St", "New York", "10019",
			40.7624, -73.9772, 4.8, 1507, 6437.36, []string{"French", "Wine Bars"}, []string{"restaurant_reservation"}, false),
		fixture("r9", "Smokehouse 54", "$$", "540 W 21st St", "New York", "10011",
			40.7474, -74.0066, 4.0, 623, 2816.35, []string{"Barbeque", "American (Traditional)"}, []string{"pickup", "delivery"}, true),
		fixture("r10", "Pho Saigon", "$", "1 Bowery", "New York", "10002",
			40.7140, -73.9970, 4.3, 479, 1931.21, []string{"Vietnamese", "Noodles"}, []string{"delivery"}, true),
	}
}
