package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/fivec-menu/internal/api"
    "github.com/iliyamo/fivec-menu/internal/catalog"
    "github.com/iliyamo/fivec-menu/internal/middleware"
    "github.com/iliyamo/fivec-menu/internal/model"
    q "github.com/iliyamo/fivec-menu/internal/queue"
)

// AdminAPI is the admin surface of the menu API.  *api.Client implements it.
type AdminAPI interface {
    RequestMagicLink(ctx context.Context, email string) (string, error)
    VerifyMagicLink(ctx context.Context, token string) (string, error)
    Logout(ctx context.Context, session string) error

    ListHours(ctx context.Context, session string) ([]model.Hours, error)
    CreateHours(ctx context.Context, session string, in model.HoursCreate) (*model.Hours, error)
    UpdateHours(ctx context.Context, session string, id int64, in model.HoursUpdate) (*model.Hours, error)
    DeleteHours(ctx context.Context, session string, id int64) error

    ListOverrides(ctx context.Context, session string) ([]model.Override, error)
    CreateOverride(ctx context.Context, session string, in model.OverrideCreate) (*model.Override, error)
    UpdateOverride(ctx context.Context, session string, id int64, in model.OverrideUpdate) (*model.Override, error)
    DeleteOverride(ctx context.Context, session string, id int64) error

    ParserHealth(ctx context.Context, session string) ([]model.ParserHealth, error)
}

// AuditPublisher receives one event per successful admin write.
// *service.Publisher implements it.
type AuditPublisher interface {
    PublishAsync(ev q.AdminChangeEvent)
}

// AuditReader lists recorded admin changes.  Both *repository.AuditRepo
// and *queue.FileSink implement it.
type AuditReader interface {
    Recent(ctx context.Context, limit int) ([]model.AuditEntry, error)
}

// SessionTTL is the lifetime of the admin_session cookie.
const SessionTTL = 7 * 24 * time.Hour

// AdminHandler serves the admin console.  Audit may be nil when neither a
// database nor a file sink is configured.
type AdminHandler struct {
    API          AdminAPI
    Catalog      *catalog.Catalog
    Flash        *Flashes
    Audit        AuditReader
    Publisher    AuditPublisher
    CookieSecure bool
    Log          *zap.Logger
}

// adminPage carries the fields every admin template uses.
type adminPage struct {
    Title   string
    Section string
    Flashes []Flash
    Token   string
}

func (h *AdminHandler) page(c echo.Context, title, section string) adminPage {
    return adminPage{
        Title:   title,
        Section: section,
        Flashes: h.Flash.Pop(c),
        Token:   middleware.FormTokenFrom(c),
    }
}

func (h *AdminHandler) setSession(c echo.Context, value string, maxAge int) {
    c.SetCookie(&http.Cookie{
        Name:     api.SessionCookie,
        Value:    value,
        Path:     "/",
        MaxAge:   maxAge,
        HttpOnly: true,
        Secure:   h.CookieSecure,
        SameSite: http.SameSiteLaxMode,
    })
}

func (h *AdminHandler) clearSession(c echo.Context) { h.setSession(c, "", -1) }

// fail handles an upstream error on an admin request.  Rejected sessions
// are cleared and sent to login; anything else is flashed and the admin
// is redirected to back.
func (h *AdminHandler) fail(c echo.Context, err error, back string) error {
    if errors.Is(err, api.ErrUnauthorized) {
        h.clearSession(c)
        h.Flash.Add(c, "error", api.Message(err))
        return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
    }
    var apiErr *api.Error
    if !errors.As(err, &apiErr) && !errors.Is(err, api.ErrNotFound) {
        h.Log.Error("admin upstream call failed", zap.String("path", c.Path()), zap.Error(err))
    }
    h.Flash.Add(c, "error", api.Message(err))
    return c.Redirect(http.StatusSeeOther, back)
}

func (h *AdminHandler) publish(c echo.Context, action, resource string, id int64, hallID, summary string) {
    if h.Publisher == nil {
        return
    }
    hash, _ := c.Get(middleware.CtxSessionHash).(string)
    h.Publisher.PublishAsync(q.NewAdminChangeEvent(action, resource, id, hallID, summary, hash))
}

// Index sends /admin to the hours page.
func (h *AdminHandler) Index(c echo.Context) error {
    return c.Redirect(http.StatusSeeOther, "/admin/hours")
}

func sessionOf(c echo.Context) string { return middleware.Session(c) }

type errorPage struct {
    adminPage
    Message string
}

// failRender is fail for GET pages: the error is shown in place since
// redirecting back would loop.
func (h *AdminHandler) failRender(c echo.Context, err error) error {
    if errors.Is(err, api.ErrUnauthorized) {
        h.clearSession(c)
        h.Flash.Add(c, "error", api.Message(err))
        return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
    }
    h.Log.Warn("admin page load failed", zap.String("path", c.Path()), zap.Error(err))
    return c.Render(http.StatusBadGateway, "admin_error.html", errorPage{
        adminPage: h.page(c, "Error", ""),
        Message:   api.Message(err),
    })
}
