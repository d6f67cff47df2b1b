package handler

import (
    "embed"
    "fmt"
    "html/template"
    "io"
    "strings"
    "time"

    "github.com/dustin/go-humanize"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fivec-menu/internal/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer over the embedded templates.  Every
// page is parsed once together with its layout: pages named "admin_*"
// use admin_base.html, the rest use base.html.
type Renderer struct {
    pages map[string]*template.Template
}

// NewRenderer parses all pages.  now feeds the relative-time helpers and
// may be nil.
func NewRenderer(cat *catalog.Catalog, now func() time.Time) (*Renderer, error) {
    if now == nil {
        now = time.Now
    }
    funcs := template.FuncMap{
        "mealTitle":    catalog.MealTitle,
        "badges":       cat.Badges,
        "collegeClass": cat.CollegeClass,
        "hallName":     cat.HallName,
        "dayName":      dayName,
        "deref":        deref,
        "timeAgo": func(ts *string) string {
            if ts == nil || *ts == "" {
                return "Never"
            }
            t, err := parseTimestamp(*ts)
            if err != nil {
                return *ts
            }
            return humanize.RelTime(t, now(), "ago", "from now")
        },
        "percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
        "shortTime": func(t time.Time) string {
            return humanize.RelTime(t, now(), "ago", "from now")
        },
    }

    entries, err := templateFS.ReadDir("templates")
    if err != nil {
        return nil, err
    }
    r := &Renderer{pages: map[string]*template.Template{}}
    for _, e := range entries {
        name := e.Name()
        if name == "base.html" || name == "admin_base.html" {
            continue
        }
        layout := layoutFor(name)
        t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/"+layout, "templates/"+name)
        if err != nil {
            return nil, fmt.Errorf("parse %s: %w", name, err)
        }
        r.pages[name] = t
    }
    return r, nil
}

func layoutFor(page string) string {
    if strings.HasPrefix(page, "admin_") {
        return "admin_base.html"
    }
    return "base.html"
}

// Render executes the named page inside its layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
    t, ok := r.pages[name]
    if !ok {
        return fmt.Errorf("unknown template %q", name)
    }
    return t.ExecuteTemplate(w, layoutFor(name), data)
}

var dayNames = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func dayName(d int) string {
    if d < 0 || d >= len(dayNames) {
        return "?"
    }
    return dayNames[d]
}

func deref(s *string) string {
    if s == nil {
        return ""
    }
    return *s
}

// parseTimestamp accepts RFC 3339 with or without a zone; the API emits
// naive UTC timestamps for some fields.
func parseTimestamp(s string) (time.Time, error) {
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, nil
    }
    return time.ParseInLocation("2006-01-02T15:04:05.999999", s, time.UTC)
}
