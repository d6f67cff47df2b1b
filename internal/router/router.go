package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fivec-menu/internal/calendar"
	"github.com/iliyamo/fivec-menu/internal/handler"
	"github.com/iliyamo/fivec-menu/internal/middleware"
)

// RegisterRoutes registers the HTML feed and the health check.
func RegisterRoutes(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/", p.Home)
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the JSON API under /v1.  limit applies to every
// route.  cache only wraps menu requests whose date is explicit and inside
// today's window: /v1/dates and /v1/halls derive from reference today and
// the open-now snapshot, so they are always computed fresh.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, limit, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", limit)
	g.GET("/dates", p.Dates)
	g.GET("/halls", p.Halls)
	g.GET("/halls/:id/menu", p.HallMenu, whenDated(p.Clock, cache))
}

// whenDated applies mw only when ?date= names a day in the current window.
func whenDated(clock *calendar.Resolver, mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			d, err := calendar.ParseDate(c.QueryParam("date"))
			if err != nil || !calendar.InWindow(d, clock.ReferenceToday()) {
				return next(c)
			}
			return wrapped(c)
		}
	}
}

// RegisterAdmin registers the admin console.  Login and verify are open;
// everything else requires the admin_session cookie.  Every form POST
// carries a form token signed with secret.  loginLimit guards the magic
// link request.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, secret string, loginLimit echo.MiddlewareFunc) {
	open := e.Group("/admin", middleware.FormToken(secret))
	open.GET("/login", a.LoginForm)
	open.POST("/login", a.Login, loginLimit)
	open.GET("/verify", a.Verify)

	g := e.Group("/admin", middleware.RequireAdminSession(), middleware.FormToken(secret))
	g.GET("", a.Index)
	g.POST("/logout", a.Logout)

	g.GET("/hours", a.ListHours)
	g.POST("/hours", a.CreateHours)
	g.GET("/hours/:id/edit", a.EditHoursForm)
	g.POST("/hours/:id", a.UpdateHours)
	g.POST("/hours/:id/delete", a.DeleteHours)

	g.GET("/overrides", a.ListOverrides)
	g.POST("/overrides", a.CreateOverride)
	g.GET("/overrides/:id/edit", a.EditOverrideForm)
	g.POST("/overrides/:id", a.UpdateOverride)
	g.POST("/overrides/:id/delete", a.DeleteOverride)

	g.GET("/health", a.ParserHealth)
	g.GET("/activity", a.Activity)
}
