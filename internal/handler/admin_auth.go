package handler

import (
    "net/http"
    "net/mail"
    "strings"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/fivec-menu/internal/middleware"
)

// linkSentMessage is shown for every login request so the page does not
// reveal which addresses are registered.
const linkSentMessage = "If that email is registered, a login link has been sent."

type loginPage struct {
    adminPage
    Email string
    Sent  bool
    Error string
}

// LoginForm renders the magic-link request form.
func (h *AdminHandler) LoginForm(c echo.Context) error {
    return c.Render(http.StatusOK, "admin_login.html", loginPage{adminPage: h.page(c, "Admin Login", "")})
}

// Login asks the API to email a magic link.
func (h *AdminHandler) Login(c echo.Context) error {
    p := loginPage{adminPage: h.page(c, "Admin Login", "")}
    p.Email = strings.TrimSpace(c.FormValue("email"))
    if _, err := mail.ParseAddress(p.Email); err != nil || p.Email == "" {
        p.Error = "Enter a valid email address."
        return c.Render(http.StatusUnprocessableEntity, "admin_login.html", p)
    }
    if _, err := h.API.RequestMagicLink(c.Request().Context(), p.Email); err != nil {
        // the neutral message is shown regardless; failures only reach the log
        h.Log.Warn("request magic link failed", zap.Error(err))
    }
    p.Sent = true
    return c.Render(http.StatusOK, "admin_login.html", p)
}

// Verify exchanges ?token= for a session and stores it in the
// admin_session cookie.
func (h *AdminHandler) Verify(c echo.Context) error {
    token := c.QueryParam("token")
    p := loginPage{adminPage: h.page(c, "Admin Login", "")}
    if token == "" {
        p.Error = "No token provided."
        return c.Render(http.StatusBadRequest, "admin_login.html", p)
    }
    session, err := h.API.VerifyMagicLink(c.Request().Context(), token)
    if err != nil {
        h.Log.Info("magic link rejected", zap.Error(err))
        p.Error = "Invalid or expired link. Request a new one."
        return c.Render(http.StatusUnauthorized, "admin_login.html", p)
    }
    h.setSession(c, session, int(SessionTTL.Seconds()))
    return c.Redirect(http.StatusSeeOther, "/admin/hours")
}

// Logout ends the session upstream (best effort) and clears the cookie.
func (h *AdminHandler) Logout(c echo.Context) error {
    if s := middleware.Session(c); s != "" {
        if err := h.API.Logout(c.Request().Context(), s); err != nil {
            h.Log.Info("upstream logout failed", zap.Error(err))
        }
    }
    h.clearSession(c)
    return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}
