package handler

import (
    "net/http"
    "strings"

    "github.com/gorilla/sessions"
    "github.com/labstack/echo/v4"
)

const flashSession = "fivec-flash"

// Flash is a one-shot message shown after a redirect.
type Flash struct {
    Kind    string // "success" or "error"
    Message string
}

// Flashes stores admin flash messages in a signed cookie.
type Flashes struct {
    store *sessions.CookieStore
}

// NewFlashes builds the cookie store.  secure sets the Secure attribute.
func NewFlashes(secret string, secure bool) *Flashes {
    store := sessions.NewCookieStore([]byte(secret))
    store.Options = &sessions.Options{
        Path:     "/admin",
        MaxAge:   300,
        HttpOnly: true,
        Secure:   secure,
        SameSite: http.SameSiteLaxMode,
    }
    return &Flashes{store: store}
}

// Add queues a message for the next page render.
func (f *Flashes) Add(c echo.Context, kind, msg string) {
    s, _ := f.store.Get(c.Request(), flashSession)
    s.AddFlash(kind+"\x00"+msg)
    _ = s.Save(c.Request(), c.Response())
}

// Pop returns and clears queued messages.  A tampered or stale cookie
// yields no messages.
func (f *Flashes) Pop(c echo.Context) []Flash {
    s, err := f.store.Get(c.Request(), flashSession)
    if err != nil {
        return nil
    }
    raw := s.Flashes()
    if len(raw) == 0 {
        return nil
    }
    _ = s.Save(c.Request(), c.Response())
    out := make([]Flash, 0, len(raw))
    for _, v := range raw {
        str, ok := v.(string)
        if !ok {
            continue
        }
        kind, msg, found := strings.Cut(str, "\x00")
        if !found {
            kind, msg = "success", str
        }
        out = append(out, Flash{Kind: kind, Message: msg})
    }
    return out
}
