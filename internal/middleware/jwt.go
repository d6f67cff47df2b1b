package middleware // middleware provides shared request processing for handlers

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/fivec-menu/internal/utils"
)

// FormTokenField is the hidden input admin forms post back.
const FormTokenField = "_csrf"

// FormToken issues a signed form token on safe requests and verifies it on
// unsafe ones.  It must run after RequireAdminSession (or on routes where
// no session exists, in which case the token is bound to the empty hash).
// A POST without a valid token is rejected with 403.
func FormToken(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            hash, _ := c.Get(CtxSessionHash).(string)
            switch c.Request().Method {
            case http.MethodGet, http.MethodHead:
                tok, err := utils.NewFormToken(secret, hash, utils.FormTokenTTL)
                if err != nil {
                    return err
                }
                c.Set(CtxFormToken, tok)
            default:
                if err := utils.VerifyFormToken(secret, c.FormValue(FormTokenField), hash); err != nil {
                    return c.String(http.StatusForbidden, "Form expired or invalid. Go back, reload the page and try again.")
                }
                // re-issue so a re-rendered form after a validation error
                // still carries a usable token
                tok, err := utils.NewFormToken(secret, hash, utils.FormTokenTTL)
                if err != nil {
                    return err
                }
                c.Set(CtxFormToken, tok)
            }
            return next(c)
        }
    }
}
