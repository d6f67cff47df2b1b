// Package handler exposes the HTTP handlers of the menu frontend: the
// public hall feed (HTML and JSON) and the admin console.
package handler

import (
    "context"
    "errors"
    "net/http"
    "net/url"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"

    "github.com/iliyamo/fivec-menu/internal/api"
    "github.com/iliyamo/fivec-menu/internal/calendar"
    "github.com/iliyamo/fivec-menu/internal/catalog"
    "github.com/iliyamo/fivec-menu/internal/model"
    "github.com/iliyamo/fivec-menu/internal/opennow"
)

// MenuSource fetches one menu.  *api.Client implements it.
type MenuSource interface {
    GetMenu(ctx context.Context, hallID string, date calendar.Date, meal string) (*model.Menu, error)
}

// Snapshots provides the polled hall list and open-now statuses.
// *snapshot.Poller implements it.
type Snapshots interface {
    Halls(ctx context.Context) ([]model.Hall, error)
    Open() []model.OpenHall
}

// PublicHandler serves the hall feed.
type PublicHandler struct {
    Menus   MenuSource
    Snap    Snapshots
    Clock   *calendar.Resolver
    Catalog *catalog.Catalog
    Fanout  int
    Log     *zap.Logger
}

// feedRequest is the parsed query of / and /v1/halls.
type feedRequest struct {
    Today    calendar.Date
    Selected calendar.Date
    Open     bool
    Query    url.Values
}

// parseFeed reads date and open from the query.  Dates that fail to
// parse or fall outside the 7-day window resolve to today.
func (h *PublicHandler) parseFeed(c echo.Context) feedRequest {
    today := h.Clock.ReferenceToday()
    q := c.QueryParams()
    sel := today
    if raw := q.Get("date"); raw != "" {
        if d, err := calendar.ParseDate(raw); err == nil && calendar.InWindow(d, today) {
            sel = d
        }
    }
    return feedRequest{Today: today, Selected: sel, Open: q.Get("open") == "1", Query: q}
}

func (h *PublicHandler) deriver() opennow.Deriver { return opennow.Deriver{Clock: h.Clock} }

func (h *PublicHandler) derive(ctx context.Context, fr feedRequest) (opennow.View, error) {
    halls, err := h.Snap.Halls(ctx)
    if err != nil {
        return opennow.View{}, err
    }
    return h.deriver().DeriveFilteredHalls(halls, h.Snap.Open(), fr.Selected, fr.Open), nil
}

// mealFor picks the meal shown on a hall card: an explicit meal_<id>
// selection the hall serves, else the catalog default.
func (h *PublicHandler) mealFor(q url.Values, hallID string, v opennow.View) string {
    if m := q.Get("meal_" + hallID); m != "" && h.Catalog.Serves(hallID, m) {
        return m
    }
    current := ""
    if v.IsToday {
        current, _ = v.CurrentMeal(hallID)
    }
    return h.Catalog.DefaultMealFor(hallID, current)
}

type dayLink struct {
    calendar.Day
    URL      string
    Selected bool
}

type mealTab struct {
    Meal   string
    URL    string
    Active bool
}

type hallCard struct {
    Hall  model.Hall
    Open  bool
    Meal  string
    Tabs  []mealTab
    Menu  *model.Menu
    Error bool
}

type homePage struct {
    Title      string
    Days       []dayLink
    View       opennow.View
    Cards      []hallCard
    ToggleURL  string
    ShowAllURL string
    RetryURL   string
    Error      bool
}

// withParam returns "/?<q with key=val>"; an empty val removes key.
func withParam(q url.Values, key, val string) string {
    out := url.Values{}
    for k, vs := range q {
        out[k] = append([]string(nil), vs...)
    }
    if val == "" {
        out.Del(key)
    } else {
        out.Set(key, val)
    }
    if len(out) == 0 {
        return "/"
    }
    return "/?" + out.Encode()
}

// Home renders the hall feed for the selected date.
func (h *PublicHandler) Home(c echo.Context) error {
    ctx := c.Request().Context()
    fr := h.parseFeed(c)

    page := homePage{Title: "5C Menu", RetryURL: c.Request().URL.RequestURI()}
    base := url.Values{}
    if fr.Open {
        base.Set("open", "1")
    }
    for _, d := range calendar.Days(fr.Today) {
        page.Days = append(page.Days, dayLink{Day: d, URL: withParam(base, "date", d.Date.String()), Selected: d.Date.Equal(fr.Selected)})
    }
    dateOnly := url.Values{}
    if !fr.Selected.Equal(fr.Today) {
        dateOnly.Set("date", fr.Selected.String())
    }
    if fr.Open {
        page.ToggleURL = withParam(dateOnly, "open", "")
    } else {
        page.ToggleURL = withParam(dateOnly, "open", "1")
    }
    page.ShowAllURL = withParam(fr.Query, "open", "")

    view, err := h.derive(ctx, fr)
    if err != nil {
        h.Log.Warn("load halls failed", zap.Error(err))
        page.Error = true
        page.View = h.deriver().DeriveFilteredHalls(nil, nil, fr.Selected, fr.Open)
        return c.Render(http.StatusOK, "home.html", page)
    }
    page.View = view
    page.Cards = make([]hallCard, len(view.Halls))
    for i, hall := range view.Halls {
        meal := h.mealFor(fr.Query, hall.ID, view)
        card := hallCard{Hall: hall, Open: view.IsOpen(hall.ID), Meal: meal}
        for _, m := range h.Catalog.Meals(hall.ID) {
            card.Tabs = append(card.Tabs, mealTab{Meal: m, URL: withParam(fr.Query, "meal_"+hall.ID, m), Active: m == meal})
        }
        page.Cards[i] = card
    }

    h.fetchMenus(ctx, fr.Selected, page.Cards)
    return c.Render(http.StatusOK, "home.html", page)
}

// fetchMenus loads every card's menu concurrently.  A failing card is
// marked and never fails the page.
func (h *PublicHandler) fetchMenus(ctx context.Context, date calendar.Date, cards []hallCard) {
    var g errgroup.Group
    g.SetLimit(max(h.Fanout, 1))
    for i := range cards {
        card := &cards[i]
        g.Go(func() error {
            menu, err := h.Menus.GetMenu(ctx, card.Hall.ID, date, card.Meal)
            if err != nil {
                if !errors.Is(err, api.ErrNotFound) {
                    h.Log.Warn("load menu failed",
                        zap.String("hall", card.Hall.ID),
                        zap.String("date", date.String()),
                        zap.String("meal", card.Meal),
                        zap.Error(err))
                    card.Error = true
                }
                return nil
            }
            card.Menu = menu
            return nil
        })
    }
    _ = g.Wait()
}

// Dates returns the 7-day window anchored at reference today.
func (h *PublicHandler) Dates(c echo.Context) error {
    today := h.Clock.ReferenceToday()
    return c.JSON(http.StatusOK, echo.Map{"today": today, "items": calendar.Days(today)})
}

// PublicHall is one hall in the /v1/halls response.
type PublicHall struct {
    model.Hall
    IsOpen      bool     `json:"is_open"`
    CurrentMeal string   `json:"current_meal,omitempty"`
    DefaultMeal string   `json:"default_meal"`
    Meals       []string `json:"meals"`
}

// Halls returns the derived feed as JSON.
func (h *PublicHandler) Halls(c echo.Context) error {
    fr := h.parseFeed(c)
    view, err := h.derive(c.Request().Context(), fr)
    if err != nil {
        h.Log.Warn("load halls failed", zap.Error(err))
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load dining halls"})
    }
    items := make([]PublicHall, 0, len(view.Halls))
    for _, hall := range view.Halls {
        cur, _ := view.CurrentMeal(hall.ID)
        items = append(items, PublicHall{
            Hall:        hall,
            IsOpen:      view.IsOpen(hall.ID),
            CurrentMeal: cur,
            DefaultMeal: h.mealFor(fr.Query, hall.ID, view),
            Meals:       h.Catalog.Meals(hall.ID),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "date":           view.Selected,
        "is_today":       view.IsToday,
        "filter_applied": view.FilterApplied(),
        "filter_inert":   view.FilterInert(),
        "total":          view.Total,
        "items":          items,
    })
}

// HallMenu proxies one menu.  date defaults to today and must fall in the
// window; meal defaults to the hall's default meal.
func (h *PublicHandler) HallMenu(c echo.Context) error {
    id := c.Param("id")
    today := h.Clock.ReferenceToday()
    date := today
    if raw := c.QueryParam("date"); raw != "" {
        d, err := calendar.ParseDate(raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
        }
        if !calendar.InWindow(d, today) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "date outside the 7-day window"})
        }
        date = d
    }
    meal := c.QueryParam("meal")
    if meal == "" {
        meal = h.Catalog.DefaultMealFor(id, "")
    }

    menu, err := h.Menus.GetMenu(c.Request().Context(), id, date, meal)
    if err != nil {
        if errors.Is(err, api.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "menu not found"})
        }
        h.Log.Warn("load menu failed", zap.String("hall", id), zap.Error(err))
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load menu"})
    }
    return c.JSON(http.StatusOK, menu)
}

// Health is the liveness endpoint used by load balancers.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}
