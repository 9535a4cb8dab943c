package models

// Business is a restaurant record as a provider returns it. Every field other
// than ID and Name is optional and modelled as a pointer or nil-able slice.
type Business struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	ImageURL     *string              `json:"image_url,omitempty"`
	Rating       *float64             `json:"rating,omitempty"`
	ReviewCount  *int                 `json:"review_count,omitempty"`
	Price        *string              `json:"price,omitempty"`
	Phone        *string              `json:"phone,omitempty"`
	DisplayPhone *string              `json:"display_phone,omitempty"`
	Location     *BusinessLocation    `json:"location,omitempty"`
	Coordinates  *BusinessCoordinates `json:"coordinates,omitempty"`
	Categories   []Category           `json:"categories,omitempty"`
	Distance     *float64             `json:"distance,omitempty"` // meters
	IsClosed     *bool                `json:"is_closed,omitempty"`
	URL          *string              `json:"url,omitempty"`
	Transactions []string             `json:"transactions,omitempty"`
	Photos       []string             `json:"photos,omitempty"`
	Hours        []Hours              `json:"hours,omitempty"`
}

type BusinessLocation struct {
	Address1 *string `json:"address1,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	ZipCode  *string `json:"zip_code,omitempty"`
}

type BusinessCoordinates struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Category struct {
	Alias string `json:"alias,omitempty"`
	Title string `json:"title"`
}

// Hours is one schedule entry. Only the current-status flag is read.
type Hours struct {
	HoursType string `json:"hours_type,omitempty"`
	IsOpenNow *bool  `json:"is_open_now,omitempty"`
}

// CategoryTitles returns the category labels in source order.
func (b *Business) CategoryTitles() []string {
	titles := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		titles = append(titles, c.Title)
	}
	return titles
}

// SearchResponse is the body of a business search call.
type SearchResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
}

// String, Float, Int and Bool return pointers to their argument. They keep
// fixture and factory literals short.
func String(v string) *string { return &v }
func Float(v float64) *float64 { return &v }
func Int(v int) *int { return &v }
func Bool(v bool) *bool { return &v }
