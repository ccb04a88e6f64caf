package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"ems_portal/internal/models"
)

// SessionReader resolves the session of the browser context in ctx
type SessionReader interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
}

// RequireSession redirects to /login unless the browser context has an active session
func RequireSession(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := sessions.CurrentSession(c.Request().Context())
			if err != nil {
				return err
			}
			if session == nil {
				return c.Redirect(http.StatusSeeOther, "/login")
			}

			// Set user info in context for downstream handlers
			c.Set("session", session)
			c.Set("userID", session.UserID)
			c.Set("userName", session.Name)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by RequireSession
func SessionFrom(c echo.Context) *models.Session {
	s, _ := c.Get("session").(*models.Session)
	return s
}
