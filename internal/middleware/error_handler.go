package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"ems_portal/web/templates/pages"
	"ems_portal/web/templates/shared"
)

// CustomErrorHandler renders the error page for unhandled errors
func CustomErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		errorTitle := "Internal Server Error"
		errorMessage := ""

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code

			if msg, ok := he.Message.(string); ok && msg != "" {
				errorMessage = msg
			}

			switch code {
			case http.StatusNotFound:
				errorTitle = "Page Not Found"
				if errorMessage == "" || errorMessage == http.StatusText(code) {
					errorMessage = "The page you're looking for doesn't exist."
				}
			case http.StatusForbidden:
				errorTitle = "Access Denied"
				if errorMessage == "" {
					errorMessage = "You don't have permission to access this resource."
				}
			case http.StatusConflict:
				errorTitle = "Request In Progress"
				if errorMessage == "" {
					errorMessage = "Your previous request is still being processed."
				}
			case http.StatusBadRequest:
				errorTitle = "Bad Request"
				if errorMessage == "" {
					errorMessage = "The request could not be processed."
				}
			case http.StatusMethodNotAllowed:
				errorTitle = "Method Not Allowed"
				errorMessage = "The request could not be processed."
			default:
				if errorMessage == "" {
					errorMessage = "Something went wrong. Please try again later."
				}
			}
		} else {
			errorMessage = "Something went wrong. Please try again later."
		}

		event := log.Warn()
		if code >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).Int("status", code).Str("path", c.Request().URL.Path).Msg("Request failed")

		userID, _ := c.Get("userID").(string)
		props := pages.ErrorPageProps{
			Base: pages.Base{
				Title:       errorTitle,
				Breadcrumbs: shared.Crumbs(shared.Breadcrumb{Title: "Error"}),
				UserID:      userID,
			},
			ErrorTitle:   errorTitle,
			ErrorMessage: errorMessage,
		}
		if userID == "" {
			props.Breadcrumbs = nil
			props.BackLink = "/login"
			props.BackText = "Back to Login"
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(code)
		if c.Request().Method == http.MethodHead {
			return
		}
		if renderErr := pages.ErrorPage(props).Render(c.Request().Context(), c.Response()); renderErr != nil {
			log.Error().Err(fmt.Errorf("failed to render error page: %w", renderErr)).Msg("Error page fallback")
			_, _ = c.Response().Write([]byte(errorMessage))
		}
	}
}
