package models

// RestaurantSummary is the list-view shape of a restaurant.
type RestaurantSummary struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Image       string       `json:"image,omitempty"`
	Rating      float64      `json:"rating"`
	ReviewCount int          `json:"reviewCount"`
	Price       string       `json:"price"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Categories  []string     `json:"categories"`
	Distance    *string      `json:"distance,omitempty"` // miles, two decimals
	IsClosed    bool         `json:"isClosed"`
	URL         string       `json:"url,omitempty"`
}

// RestaurantDetail is the expanded single-restaurant view.
type RestaurantDetail struct {
	RestaurantSummary
	Photos       []string `json:"photos"`
	Hours        string   `json:"hours"`
	Transactions []string `json:"transactions"`
	Specialties  string   `json:"specialties"`
	Delivery     bool     `json:"delivery"`
	Pickup       bool     `json:"pickup"`
	Reservations bool     `json:"reservations"`
}
