package model

// Hall is a dining hall as returned by GET /api/v2/halls/.  The list is
// read-only to this service; it is refreshed by the snapshot poller and
// shared between requests, so callers must never modify it in place.
//
// ID is a stable slug such as "collins".  College picks the card colour
// (hmc, cmc, ...) and VendorType names the menu source (sodexo, bonappetit,
// pomona).  Color is an optional hex hint from the API.
type Hall struct {
    ID         string  `json:"id"`
    Name       string  `json:"name"`
    College    string  `json:"college"`
    VendorType string  `json:"vendor_type"`
    Color      *string `json:"color"`
}

// OpenHall is one entry of the open-now snapshot (GET /api/v2/open-now/).
// CurrentMeal names the meal period being served right now.
type OpenHall struct {
    ID          string  `json:"id"`
    Name        string  `json:"name"`
    College     string  `json:"college"`
    Color       *string `json:"color"`
    CurrentMeal string  `json:"current_meal"`
}
