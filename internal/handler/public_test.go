package handler

import (
    "context"
    "encoding/json"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "sync"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "github.com/iliyamo/fivec-menu/internal/api"
    "github.com/iliyamo/fivec-menu/internal/calendar"
    "github.com/iliyamo/fivec-menu/internal/catalog"
    "github.com/iliyamo/fivec-menu/internal/model"
)

// 2026-02-10T03:00Z is the evening of Mon 2026-02-09 in Pacific time.
var fixedNow = time.Date(2026, 2, 10, 3, 0, 0, 0, time.UTC)

type fakeSnap struct {
    halls []model.Hall
    open  []model.OpenHall
    err   error
}

func (f fakeSnap) Halls(context.Context) ([]model.Hall, error) { return f.halls, f.err }
func (f fakeSnap) Open() []model.OpenHall                      { return f.open }

type menuCall struct {
    Hall, Date, Meal string
}

type fakeMenus struct {
    mu    sync.Mutex
    calls []menuCall
    fail  map[string]error
    stale map[string]string
}

func (f *fakeMenus) GetMenu(_ context.Context, hallID string, date calendar.Date, meal string) (*model.Menu, error) {
    f.mu.Lock()
    f.calls = append(f.calls, menuCall{hallID, date.String(), meal})
    f.mu.Unlock()
    if err := f.fail[hallID]; err != nil {
        return nil, err
    }
    m := &model.Menu{
        HallID: hallID, Date: date.String(), Meal: meal,
        Stations: []model.Station{{Name: "Grill", Items: []model.MenuItem{{Name: hallID + " " + meal + " special", Tags: []string{"vegan", "mystery"}}}}},
    }
    if ts, ok := f.stale[hallID]; ok {
        m.IsStale = true
        m.FetchedAt = &ts
    }
    return m, nil
}

func (f *fakeMenus) mealFor(hall string) string {
    f.mu.Lock()
    defer f.mu.Unlock()
    for _, c := range f.calls {
        if c.Hall == hall {
            return c.Meal
        }
    }
    return ""
}

var testHalls = []model.Hall{
    {ID: "frank", Name: "Frank", College: "pomona"},
    {ID: "hoch", Name: "Hoch-Shanahan", College: "hmc"},
    {ID: "oldenborg", Name: "Oldenborg", College: "pomona"},
}

func newPublic(t *testing.T, snap Snapshots, menus *fakeMenus) (*echo.Echo, *PublicHandler) {
    t.Helper()
    clock, err := calendar.NewResolver(calendar.WithClock(func() time.Time { return fixedNow }))
    require.NoError(t, err)
    cat := catalog.Default()
    r, err := NewRenderer(cat, func() time.Time { return fixedNow })
    require.NoError(t, err)

    e := echo.New()
    e.Renderer = r
    h := &PublicHandler{Menus: menus, Snap: snap, Clock: clock, Catalog: cat, Fanout: 2, Log: zap.NewNop()}
    e.GET("/", h.Home)
    e.GET("/v1/dates", h.Dates)
    e.GET("/v1/halls", h.Halls)
    e.GET("/v1/halls/:id/menu", h.HallMenu)
    return e, h
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
    return rec
}

func TestHomeRendersAllHalls(t *testing.T) {
    menus := &fakeMenus{}
    e, _ := newPublic(t, fakeSnap{halls: testHalls, open: []model.OpenHall{{ID: "hoch", CurrentMeal: "dinner"}}}, menus)

    rec := get(e, "/")
    require.Equal(t, http.StatusOK, rec.Code)
    body := rec.Body.String()

    assert.Contains(t, body, "Frank")
    assert.Contains(t, body, "Hoch-Shanahan")
    assert.Contains(t, body, "Oldenborg")
    assert.Contains(t, body, ">Today<")
    assert.Contains(t, body, ">Tomorrow<")
    assert.Contains(t, body, "Wed, Feb 11")
    assert.Contains(t, body, `<span class="badge">V</span>`)
    assert.NotContains(t, body, "No dining halls are currently open.")

    // open hall defaults to its current meal, closed halls to their first meal
    assert.Equal(t, "dinner", menus.mealFor("hoch"))
    assert.Equal(t, "breakfast", menus.mealFor("frank"))
    assert.Equal(t, "lunch", menus.mealFor("oldenborg"))
}

func TestHomeOpenFilterToday(t *testing.T) {
    menus := &fakeMenus{}
    e, _ := newPublic(t, fakeSnap{halls: testHalls, open: []model.OpenHall{{ID: "hoch", CurrentMeal: "dinner"}}}, menus)

    body := get(e, "/?open=1").Body.String()
    assert.Contains(t, body, "Hoch-Shanahan")
    assert.NotContains(t, body, `id="hall-frank"`)
    assert.NotContains(t, body, "Open Now filter only applies to today")
}

func TestHomeOpenFilterInertOnOtherDay(t *testing.T) {
    e, _ := newPublic(t, fakeSnap{halls: testHalls}, &fakeMenus{})

    body := get(e, "/?open=1&date=2026-02-11").Body.String()
    assert.Contains(t, body, "Open Now filter only applies to today")
    assert.Contains(t, body, `id="hall-frank"`)
    assert.NotContains(t, body, "No dining halls are currently open.")
}

func TestHomeEmptyStateWhenNothingOpen(t *testing.T) {
    e, _ := newPublic(t, fakeSnap{halls: testHalls}, &fakeMenus{})

    body := get(e, "/?open=1").Body.String()
    assert.Contains(t, body, "No dining halls are currently open.")
    assert.Contains(t, body, "Show all halls")
}

func TestHomeOutOfWindowDateFallsBackToToday(t *testing.T) {
    menus := &fakeMenus{}
    e, _ := newPublic(t, fakeSnap{halls: testHalls[:1]}, menus)

    require.Equal(t, http.StatusOK, get(e, "/?date=2026-03-01").Code)
    assert.Equal(t, "2026-02-09", menus.calls[0].Date)
}

func TestHomeMealSelection(t *testing.T) {
    menus := &fakeMenus{}
    e, _ := newPublic(t, fakeSnap{halls: testHalls}, menus)

    get(e, "/?meal_frank=dinner&meal_oldenborg=dinner")
    assert.Equal(t, "dinner", menus.mealFor("frank"))
    // oldenborg does not serve dinner
    assert.Equal(t, "lunch", menus.mealFor("oldenborg"))
}

func TestHomeCardErrorDoesNotFailPage(t *testing.T) {
    menus := &fakeMenus{fail: map[string]error{"hoch": errors.New("timeout"), "frank": api.ErrNotFound}}
    e, _ := newPublic(t, fakeSnap{halls: testHalls}, menus)

    rec := get(e, "/")
    require.Equal(t, http.StatusOK, rec.Code)
    body := rec.Body.String()
    assert.Equal(t, 1, strings.Count(body, "Failed to load menu. Please try again."))
    assert.Contains(t, body, "No menu items available")
}

func TestHomeStaleBanner(t *testing.T) {
    menus := &fakeMenus{stale: map[string]string{"frank": "2026-02-10T02:55:00Z"}}
    e, _ := newPublic(t, fakeSnap{halls: testHalls[:1]}, menus)

    body := get(e, "/").Body.String()
    assert.Contains(t, body, "Last updated 5 minutes ago")
}

func TestHomeHallsUnavailable(t *testing.T) {
    e, _ := newPublic(t, fakeSnap{err: errors.New("down")}, &fakeMenus{})

    rec := get(e, "/?date=2026-02-10")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), "Failed to load dining halls.")
    assert.Contains(t, rec.Body.String(), `href="/?date=2026-02-10">Retry`)
}

func TestDatesJSON(t *testing.T) {
    e, _ := newPublic(t, fakeSnap{}, &fakeMenus{})

    rec := get(e, "/v1/dates")
    require.Equal(t, http.StatusOK, rec.Code)
    var out struct {
        Today string `json:"today"`
        Items []struct {
            Date  string `json:"date"`
            Label string `json:"label"`
        } `json:"items"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    assert.Equal(t, "2026-02-09", out.Today)
    require.Len(t, out.Items, calendar.WindowDays)
    assert.Equal(t, "Today", out.Items[0].Label)
    assert.Equal(t, "2026-02-15", out.Items[6].Date)
    assert.Equal(t, "Sun, Feb 15", out.Items[6].Label)
}

func TestHallsJSON(t *testing.T) {
    e, _ := newPublic(t, fakeSnap{halls: testHalls, open: []model.OpenHall{{ID: "oldenborg", CurrentMeal: "lunch"}}}, &fakeMenus{})

    rec := get(e, "/v1/halls?open=1")
    require.Equal(t, http.StatusOK, rec.Code)
    var out struct {
        Total         int  `json:"total"`
        FilterApplied bool `json:"filter_applied"`
        Items         []struct {
            ID          string `json:"id"`
            IsOpen      bool   `json:"is_open"`
            CurrentMeal string `json:"current_meal"`
            DefaultMeal string `json:"default_meal"`
        } `json:"items"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
    assert.Equal(t, 3, out.Total)
    assert.True(t, out.FilterApplied)
    require.Len(t, out.Items, 1)
    assert.Equal(t, "oldenborg", out.Items[0].ID)
    assert.True(t, out.Items[0].IsOpen)
    assert.Equal(t, "lunch", out.Items[0].DefaultMeal)
}

func TestHallsJSONUpstreamDown(t *testing.T) {
    e, _ := newPublic(t, fakeSnap{err: errors.New("down")}, &fakeMenus{})
    assert.Equal(t, http.StatusBadGateway, get(e, "/v1/halls").Code)
}

func TestHallMenuJSON(t *testing.T) {
    menus := &fakeMenus{fail: map[string]error{"nowhere": api.ErrNotFound}}
    e, _ := newPublic(t, fakeSnap{}, menus)

    rec := get(e, "/v1/halls/frank/menu?date=2026-02-10&meal=dinner")
    require.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"meal":"dinner"`)

    assert.Equal(t, http.StatusBadRequest, get(e, "/v1/halls/frank/menu?date=tomorrow").Code)
    assert.Equal(t, http.StatusBadRequest, get(e, "/v1/halls/frank/menu?date=2026-02-20").Code)
    assert.Equal(t, http.StatusNotFound, get(e, "/v1/halls/nowhere/menu").Code)
}

func TestWithParam(t *testing.T) {
    q := map[string][]string{"date": {"2026-02-10"}, "open": {"1"}}
    assert.Equal(t, "/?date=2026-02-10", withParam(q, "open", ""))
    assert.Equal(t, "/?date=2026-02-10&meal_frank=lunch&open=1", withParam(q, "meal_frank", "lunch"))
    assert.Equal(t, "/", withParam(nil, "open", ""))
    // input untouched
    assert.Equal(t, []string{"1"}, q["open"])
}
