package model

// ParserHealth summarises the last 24 hours of scraper runs for a hall.
// ErrorRate is a percentage (0-100).
type ParserHealth struct {
    HallID        string  `json:"hall_id"`
    LastSuccess   *string `json:"last_success"`
    TotalRuns24h  int     `json:"total_runs_24h"`
    ErrorCount24h int     `json:"error_count_24h"`
    ErrorRate     float64 `json:"error_rate"`
}

// Status classifies the parser for the admin health page.
func (p ParserHealth) Status() string {
    switch {
    case p.TotalRuns24h == 0:
        return "No data"
    case p.ErrorRate < 10:
        return "Healthy"
    case p.ErrorRate < 30:
        return "Degraded"
    default:
        return "Unhealthy"
    }
}

// Healthy reports whether the parser counts towards the healthy total.
func (p ParserHealth) Healthy() bool {
    return p.TotalRuns24h > 0 && p.ErrorRate < 10
}
