package models

// SearchEvent is published after every completed search.
type SearchEvent struct {
	Timestamp   int64  `json:"timestamp"`
	EventType   string `json:"eventType"`
	Provider    string `json:"provider"`
	Term        string `json:"term"`
	Location    string `json:"location"`
	Limit       int    `json:"limit"`
	ResultCount int    `json:"resultCount"`
	Failed      bool   `json:"failed"`
}

// ViewEvent is published after every detail lookup.
type ViewEvent struct {
	Timestamp    int64  `json:"timestamp"`
	EventType    string `json:"eventType"`
	Provider     string `json:"provider"`
	RestaurantID string `json:"restaurantId"`
	Found        bool   `json:"found"`
	Failed       bool   `json:"failed"`
}
