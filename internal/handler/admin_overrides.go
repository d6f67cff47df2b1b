package handler

import (
    "fmt"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fivec-menu/internal/calendar"
    "github.com/iliyamo/fivec-menu/internal/model"
    q "github.com/iliyamo/fivec-menu/internal/queue"
)

const overridesPath = "/admin/overrides"

type overridesPage struct {
    adminPage
    Overrides []model.Override
    Halls     []string
    Meals     []string
}

type overrideEditPage struct {
    adminPage
    Row model.Override
}

func optional(s string) *string {
    s = strings.TrimSpace(s)
    if s == "" {
        return nil
    }
    return &s
}

// optionalClock parses an optional time field.  Empty is valid (closed).
func optionalClock(s string) (*string, bool) {
    if strings.TrimSpace(s) == "" {
        return nil, true
    }
    v, ok := normalizeClock(s)
    if !ok {
        return nil, false
    }
    return &v, true
}

// ListOverrides renders all overrides.
func (h *AdminHandler) ListOverrides(c echo.Context) error {
    rows, err := h.API.ListOverrides(c.Request().Context(), sessionOf(c))
    if err != nil {
        return h.failRender(c, err)
    }
    return c.Render(http.StatusOK, "admin_overrides.html", overridesPage{
        adminPage: h.page(c, "Hour Overrides", "overrides"),
        Overrides: rows,
        Halls:     h.Catalog.HallIDs(),
        Meals:     h.Catalog.AllMeals(),
    })
}

func (h *AdminHandler) parseOverrideCreate(c echo.Context) (model.OverrideCreate, string) {
    var in model.OverrideCreate
    in.HallID = c.FormValue("hall_id")
    if !h.Catalog.KnownHall(in.HallID) {
        return in, "Unknown hall."
    }
    d, err := calendar.ParseDate(c.FormValue("date"))
    if err != nil {
        return in, "Date must be YYYY-MM-DD."
    }
    in.Date = d.String()
    if m := optional(c.FormValue("meal")); m != nil {
        low := strings.ToLower(*m)
        in.Meal = &low
    }
    var ok bool
    if in.StartTime, ok = optionalClock(c.FormValue("start_time")); !ok {
        return in, "Start time must be HH:MM or empty."
    }
    if in.EndTime, ok = optionalClock(c.FormValue("end_time")); !ok {
        return in, "End time must be HH:MM or empty."
    }
    if (in.StartTime == nil) != (in.EndTime == nil) {
        return in, "Set both start and end, or leave both empty for closed."
    }
    in.Reason = optional(c.FormValue("reason"))
    return in, ""
}

func overrideSummary(hallName, date string, meal, start, end *string) string {
    m := "all meals"
    if meal != nil {
        m = *meal
    }
    if start == nil {
        return fmt.Sprintf("%s %s %s closed", hallName, date, m)
    }
    return fmt.Sprintf("%s %s %s %s-%s", hallName, date, m, *start, deref(end))
}

// CreateOverride adds an override.
func (h *AdminHandler) CreateOverride(c echo.Context) error {
    in, msg := h.parseOverrideCreate(c)
    if msg != "" {
        h.Flash.Add(c, "error", msg)
        return c.Redirect(http.StatusSeeOther, overridesPath)
    }
    row, err := h.API.CreateOverride(c.Request().Context(), sessionOf(c), in)
    if err != nil {
        return h.fail(c, err, overridesPath)
    }
    h.publish(c, q.ActionCreate, q.ResourceOverride, row.ID, in.HallID,
        overrideSummary(h.Catalog.HallName(in.HallID), in.Date, in.Meal, in.StartTime, in.EndTime))
    h.Flash.Add(c, "success", "Override added.")
    return c.Redirect(http.StatusSeeOther, overridesPath)
}

// EditOverrideForm renders the edit form for one override.
func (h *AdminHandler) EditOverrideForm(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return c.Redirect(http.StatusSeeOther, overridesPath)
    }
    rows, err := h.API.ListOverrides(c.Request().Context(), sessionOf(c))
    if err != nil {
        return h.failRender(c, err)
    }
    for _, r := range rows {
        if r.ID == id {
            return c.Render(http.StatusOK, "admin_override_edit.html", overrideEditPage{
                adminPage: h.page(c, "Edit Override", "overrides"),
                Row:       r,
            })
        }
    }
    h.Flash.Add(c, "error", "Entry not found")
    return c.Redirect(http.StatusSeeOther, overridesPath)
}

// UpdateOverride changes start, end and reason.
func (h *AdminHandler) UpdateOverride(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return c.Redirect(http.StatusSeeOther, overridesPath)
    }
    back := fmt.Sprintf("%s/%d/edit", overridesPath, id)
    start, ok1 := optionalClock(c.FormValue("start_time"))
    end, ok2 := optionalClock(c.FormValue("end_time"))
    if !ok1 || !ok2 {
        h.Flash.Add(c, "error", "Times must be HH:MM or empty.")
        return c.Redirect(http.StatusSeeOther, back)
    }
    if (start == nil) != (end == nil) {
        h.Flash.Add(c, "error", "Set both start and end, or leave both empty for closed.")
        return c.Redirect(http.StatusSeeOther, back)
    }
    in := model.OverrideUpdate{StartTime: start, EndTime: end, Reason: optional(c.FormValue("reason"))}
    row, err := h.API.UpdateOverride(c.Request().Context(), sessionOf(c), id, in)
    if err != nil {
        return h.fail(c, err, back)
    }
    h.publish(c, q.ActionUpdate, q.ResourceOverride, id, row.HallID,
        overrideSummary(h.Catalog.HallName(row.HallID), row.Date, row.Meal, row.StartTime, row.EndTime))
    h.Flash.Add(c, "success", "Override updated.")
    return c.Redirect(http.StatusSeeOther, overridesPath)
}

// DeleteOverride removes an override.
func (h *AdminHandler) DeleteOverride(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return c.Redirect(http.StatusSeeOther, overridesPath)
    }
    if err := h.API.DeleteOverride(c.Request().Context(), sessionOf(c), id); err != nil {
        return h.fail(c, err, overridesPath)
    }
    hall := c.FormValue("hall_id")
    h.publish(c, q.ActionDelete, q.ResourceOverride, id, hall, fmt.Sprintf("override #%d of %s", id, h.Catalog.HallName(hall)))
    h.Flash.Add(c, "success", "Override deleted.")
    return c.Redirect(http.StatusSeeOther, overridesPath)
}
