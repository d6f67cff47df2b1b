package model

// Hours is a regular weekly serving window managed from the admin console.
// DayOfWeek runs from 0 (Sunday) to 6 (Saturday).  StartTime and EndTime
// are "HH:MM[:SS]" in Pacific time.  Inactive rows are ignored when the
// API computes open-now.
type Hours struct {
    ID        int64  `json:"id"`
    HallID    string `json:"hall_id"`
    DayOfWeek int    `json:"day_of_week"`
    Meal      string `json:"meal"`
    StartTime string `json:"start_time"`
    EndTime   string `json:"end_time"`
    IsActive  bool   `json:"is_active"`
}

// HoursCreate is the body of POST /admin/hours.
type HoursCreate struct {
    HallID    string `json:"hall_id"`
    DayOfWeek int    `json:"day_of_week"`
    Meal      string `json:"meal"`
    StartTime string `json:"start_time"`
    EndTime   string `json:"end_time"`
}

// HoursUpdate is the body of PUT /admin/hours/{id}.  Nil fields are left
// unchanged upstream.
type HoursUpdate struct {
    StartTime *string `json:"start_time,omitempty"`
    EndTime   *string `json:"end_time,omitempty"`
    IsActive  *bool   `json:"is_active,omitempty"`
}
