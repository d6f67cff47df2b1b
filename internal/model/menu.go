package model

// MenuItem is a single dish.  Tags are lowercase dietary markers such as
// "vegan" or "gluten-free".
type MenuItem struct {
    Name string   `json:"name"`
    Tags []string `json:"tags"`
}

// Station groups items served at one counter.
type Station struct {
    Name  string     `json:"name"`
    Items []MenuItem `json:"items"`
}

// Menu is the response of GET /api/v2/menus/ for one hall, date and meal.
// IsStale is set by the API when it served cached data after a failed
// scrape; FetchedAt is then the RFC 3339 time of the last good scrape.
type Menu struct {
    HallID    string    `json:"hall_id"`
    Date      string    `json:"date"`
    Meal      string    `json:"meal"`
    Stations  []Station `json:"stations"`
    IsStale   bool      `json:"is_stale"`
    FetchedAt *string   `json:"fetched_at"`
}
