package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skywayair/skyway-web/internal/session"
	"github.com/skywayair/skyway-web/internal/skyway"
)

const sessionIDKey = "session_id"

// SessionContext resolves the session cookie to a bearer token and places
// it on the request context, so every backend call site receives the
// session explicitly instead of reading ambient state.
func SessionContext(store session.Store, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			c.Set(sessionIDKey, cookie.Value)

			req := c.Request()
			token, err := store.Token(req.Context(), cookie.Value)
			if err == nil && token != "" {
				c.SetRequest(req.WithContext(session.WithToken(req.Context(), token)))
			}
			return next(c)
		}
	}
}

// RedirectExpired is the single place an expired session becomes a
// navigation: whichever handler bubbles up ErrAuthExpired, the reply is one
// redirect to the login entry point. The auth routes are registered outside
// this middleware, so landing on login can never re-trigger it.
func RedirectExpired(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if errors.Is(err, skyway.ErrAuthExpired) {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			return err
		}
	}
}

func sessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}
