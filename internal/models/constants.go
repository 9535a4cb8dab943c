package models

const (
	ProviderLocal         = "local"
	ProviderYelp          = "yelp"
	ProviderPostgres      = "postgres"
	ProviderElasticsearch = "elasticsearch"

	DefaultLocation = "New York"
	DefaultLimit    = 20

	PriceUnknown = "N/A"

	HoursOpenNow = "Open Now"
	HoursClosed  = "Closed"

	TransactionDelivery    = "delivery"
	TransactionPickup      = "pickup"
	TransactionReservation = "restaurant_reservation"

	MetersPerMile = 1609.34

	TopicSearches = "restaurant_searches"
	TopicViews    = "restaurant_views"
)
