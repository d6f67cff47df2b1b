package handler

import (
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fivec-menu/internal/model"
    q "github.com/iliyamo/fivec-menu/internal/queue"
)

const hoursPath = "/admin/hours"

type hoursPage struct {
    adminPage
    Hours  []model.Hours
    Halls  []string
    Meals  []string
    Days   []int
    Create model.HoursCreate
}

type hoursEditPage struct {
    adminPage
    Row model.Hours
}

// normalizeClock accepts "H:MM", "HH:MM" or "HH:MM:SS" and returns "HH:MM".
func normalizeClock(s string) (string, bool) {
    s = strings.TrimSpace(s)
    for _, layout := range []string{"15:04", "15:04:05"} {
        if t, err := time.Parse(layout, s); err == nil {
            return t.Format("15:04"), true
        }
    }
    return "", false
}

func parseID(c echo.Context) (int64, bool) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    return id, err == nil && id > 0
}

// ListHours renders all regular hours in the order the API returns them.
func (h *AdminHandler) ListHours(c echo.Context) error {
    rows, err := h.API.ListHours(c.Request().Context(), sessionOf(c))
    if err != nil {
        return h.failRender(c, err)
    }
    return c.Render(http.StatusOK, "admin_hours.html", hoursPage{
        adminPage: h.page(c, "Dining Hours", "hours"),
        Hours:     rows,
        Halls:     h.Catalog.HallIDs(),
        Meals:     h.Catalog.AllMeals(),
        Days:      []int{0, 1, 2, 3, 4, 5, 6},
        Create:    model.HoursCreate{StartTime: "07:00", EndTime: "09:00"},
    })
}

// parseHoursCreate validates the create form.
func (h *AdminHandler) parseHoursCreate(c echo.Context) (model.HoursCreate, string) {
    var in model.HoursCreate
    in.HallID = c.FormValue("hall_id")
    if !h.Catalog.KnownHall(in.HallID) {
        return in, "Unknown hall."
    }
    day, err := strconv.Atoi(c.FormValue("day_of_week"))
    if err != nil || day < 0 || day > 6 {
        return in, "Day must be between Sunday and Saturday."
    }
    in.DayOfWeek = day
    in.Meal = strings.ToLower(strings.TrimSpace(c.FormValue("meal")))
    if in.Meal == "" {
        return in, "Meal is required."
    }
    var ok bool
    if in.StartTime, ok = normalizeClock(c.FormValue("start_time")); !ok {
        return in, "Start time must be HH:MM."
    }
    if in.EndTime, ok = normalizeClock(c.FormValue("end_time")); !ok {
        return in, "End time must be HH:MM."
    }
    return in, ""
}

// CreateHours adds a regular hours row.
func (h *AdminHandler) CreateHours(c echo.Context) error {
    in, msg := h.parseHoursCreate(c)
    if msg != "" {
        h.Flash.Add(c, "error", msg)
        return c.Redirect(http.StatusSeeOther, hoursPath)
    }
    row, err := h.API.CreateHours(c.Request().Context(), sessionOf(c), in)
    if err != nil {
        return h.fail(c, err, hoursPath)
    }
    summary := fmt.Sprintf("%s %s %s %s-%s", h.Catalog.HallName(in.HallID), dayName(in.DayOfWeek), in.Meal, in.StartTime, in.EndTime)
    h.publish(c, q.ActionCreate, q.ResourceHours, row.ID, in.HallID, summary)
    h.Flash.Add(c, "success", "Hours added.")
    return c.Redirect(http.StatusSeeOther, hoursPath)
}

// EditHoursForm renders the edit form for one row.  The API has no
// single-row read, so the row is looked up in the list.
func (h *AdminHandler) EditHoursForm(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return c.Redirect(http.StatusSeeOther, hoursPath)
    }
    rows, err := h.API.ListHours(c.Request().Context(), sessionOf(c))
    if err != nil {
        return h.failRender(c, err)
    }
    for _, r := range rows {
        if r.ID == id {
            return c.Render(http.StatusOK, "admin_hours_edit.html", hoursEditPage{
                adminPage: h.page(c, "Edit Hours", "hours"),
                Row:       r,
            })
        }
    }
    h.Flash.Add(c, "error", "Entry not found")
    return c.Redirect(http.StatusSeeOther, hoursPath)
}

// UpdateHours changes start, end and active flag of a row.
func (h *AdminHandler) UpdateHours(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return c.Redirect(http.StatusSeeOther, hoursPath)
    }
    back := fmt.Sprintf("%s/%d/edit", hoursPath, id)
    start, ok1 := normalizeClock(c.FormValue("start_time"))
    end, ok2 := normalizeClock(c.FormValue("end_time"))
    if !ok1 || !ok2 {
        h.Flash.Add(c, "error", "Times must be HH:MM.")
        return c.Redirect(http.StatusSeeOther, back)
    }
    active := c.FormValue("is_active") == "on" || c.FormValue("is_active") == "true"
    row, err := h.API.UpdateHours(c.Request().Context(), sessionOf(c), id, model.HoursUpdate{StartTime: &start, EndTime: &end, IsActive: &active})
    if err != nil {
        return h.fail(c, err, back)
    }
    state := "active"
    if !active {
        state = "inactive"
    }
    summary := fmt.Sprintf("%s %s %s %s-%s (%s)", h.Catalog.HallName(row.HallID), dayName(row.DayOfWeek), row.Meal, start, end, state)
    h.publish(c, q.ActionUpdate, q.ResourceHours, id, row.HallID, summary)
    h.Flash.Add(c, "success", "Hours updated.")
    return c.Redirect(http.StatusSeeOther, hoursPath)
}

// DeleteHours removes a row.  The form posts the hall id along so the
// audit entry can name it.
func (h *AdminHandler) DeleteHours(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return c.Redirect(http.StatusSeeOther, hoursPath)
    }
    if err := h.API.DeleteHours(c.Request().Context(), sessionOf(c), id); err != nil {
        return h.fail(c, err, hoursPath)
    }
    hall := c.FormValue("hall_id")
    h.publish(c, q.ActionDelete, q.ResourceHours, id, hall, fmt.Sprintf("hours #%d of %s", id, h.Catalog.HallName(hall)))
    h.Flash.Add(c, "success", "Hours deleted.")
    return c.Redirect(http.StatusSeeOther, hoursPath)
}
