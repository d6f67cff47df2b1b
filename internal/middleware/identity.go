package middleware

// identity.go holds helpers shared across middleware files for telling
// clients apart without exposing the admin session cookie.

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fivec-menu/internal/api"
    "github.com/iliyamo/fivec-menu/internal/utils"
)

// Context keys set by this package.
const (
    CtxSession     = "admin_session"
    CtxSessionHash = "admin_session_hash"
    CtxFormToken   = "form_token"
)

// sessionCookie returns the raw admin session cookie or "".
func sessionCookie(c echo.Context) string {
    ck, err := c.Cookie(api.SessionCookie)
    if err != nil {
        return ""
    }
    return ck.Value
}

// clientID identifies the caller for rate limiting: a short session hash
// for signed-in admins, "anon" for everyone else.
func clientID(c echo.Context) string {
    if s := sessionCookie(c); s != "" {
        return utils.HashSession(s)[:16]
    }
    return "anon"
}

// Session returns the admin session stored by RequireAdminSession.
func Session(c echo.Context) string {
    s, _ := c.Get(CtxSession).(string)
    return s
}

// FormTokenFrom returns the form token issued for this request.
func FormTokenFrom(c echo.Context) string {
    s, _ := c.Get(CtxFormToken).(string)
    return s
}
