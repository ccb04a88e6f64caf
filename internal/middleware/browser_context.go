package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"ems_portal/internal/storage"
)

// BrowserContextCookie names the cookie that identifies one browser
const BrowserContextCookie = "ems_ctx"

const browserContextMaxAge = 365 * 24 * time.Hour

// BrowserContext issues a browser context id on first visit and tags the
// request context with it, so session data is kept per browser.
func BrowserContext(secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(BrowserContextCookie); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     BrowserContextCookie,
					Value:    id,
					MaxAge:   int(browserContextMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					Path:     "/",
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set("browserContext", id)
			req := c.Request()
			c.SetRequest(req.WithContext(storage.WithScope(req.Context(), id)))
			return next(c)
		}
	}
}
