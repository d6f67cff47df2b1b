package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/fivec-menu/internal/model"
    "github.com/iliyamo/fivec-menu/internal/repository"
)

type healthPage struct {
    adminPage
    Parsers      []model.ParserHealth
    HealthyCount int
}

// ParserHealth renders scraper health for the last 24 hours.
func (h *AdminHandler) ParserHealth(c echo.Context) error {
    rows, err := h.API.ParserHealth(c.Request().Context(), sessionOf(c))
    if err != nil {
        return h.failRender(c, err)
    }
    p := healthPage{adminPage: h.page(c, "Parser Health", "health"), Parsers: rows}
    for _, r := range rows {
        if r.Healthy() {
            p.HealthyCount++
        }
    }
    return c.Render(http.StatusOK, "admin_health.html", p)
}

type activityPage struct {
    adminPage
    Entries    []model.AuditEntry
    Configured bool
    Error      bool
}

// Activity lists recent admin changes from the audit store.
func (h *AdminHandler) Activity(c echo.Context) error {
    p := activityPage{adminPage: h.page(c, "Recent Activity", "activity"), Configured: h.Audit != nil}
    if h.Audit == nil {
        return c.Render(http.StatusOK, "admin_activity.html", p)
    }
    entries, err := h.Audit.Recent(c.Request().Context(), 100)
    if err != nil && !errors.Is(err, repository.ErrNoStore) {
        h.Log.Error("load audit entries failed", zap.Error(err))
        p.Error = true
    }
    if errors.Is(err, repository.ErrNoStore) {
        p.Configured = false
    }
    p.Entries = entries
    return c.Render(http.StatusOK, "admin_activity.html", p)
}
