package model

// Override replaces the regular hours of a hall on one date.  A nil
// StartTime means the hall (or the given meal) is closed that day.
type Override struct {
    ID        int64   `json:"id"`
    HallID    string  `json:"hall_id"`
    Date      string  `json:"date"`
    Meal      *string `json:"meal"`
    StartTime *string `json:"start_time"`
    EndTime   *string `json:"end_time"`
    Reason    *string `json:"reason"`
}

// OverrideCreate is the body of POST /admin/overrides.
type OverrideCreate struct {
    HallID    string  `json:"hall_id"`
    Date      string  `json:"date"`
    Meal      *string `json:"meal"`
    StartTime *string `json:"start_time"`
    EndTime   *string `json:"end_time"`
    Reason    *string `json:"reason"`
}

// OverrideUpdate is the body of PUT /admin/overrides/{id}.
type OverrideUpdate struct {
    StartTime *string `json:"start_time,omitempty"`
    EndTime   *string `json:"end_time,omitempty"`
    Reason    *string `json:"reason,omitempty"`
}
