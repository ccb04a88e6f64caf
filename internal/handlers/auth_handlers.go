package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"ems_portal/internal/models"
	"ems_portal/internal/services"
	"ems_portal/internal/validation"
	"ems_portal/web/templates/pages"
	"ems_portal/web/templates/shared"
)

var countryCodes = []string{models.DefaultCountryCode, "+1", "+44", "+61", "+971"}

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	auth   *services.AuthService
	seeder *services.Seeder
	log    zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler. seeder may be nil to skip demo data.
func NewAuthHandler(auth *services.AuthService, seeder *services.Seeder, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, seeder: seeder, log: log}
}

func loginProps(form services.LoginForm) pages.LoginPageProps {
	return pages.LoginPageProps{
		Base:   pages.Base{Title: "Login"},
		Form:   form,
		Notice: msgForgotPassword,
	}
}

// LoginPage renders the login page, seeding the demo account on first use
func (h *AuthHandler) LoginPage(c echo.Context) error {
	ctx := c.Request().Context()
	if h.seeder != nil {
		if err := h.seeder.EnsureDemoData(ctx); err != nil {
			h.log.Error().Err(err).Msg("Failed to seed demo data")
		}
	}

	session, err := h.auth.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if session != nil {
		return c.Redirect(http.StatusSeeOther, "/home")
	}

	return renderPage(c, http.StatusOK, pages.LoginPage(loginProps(services.LoginForm{})))
}

// HandleLogin checks credentials and opens a session
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	var form services.LoginForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	_, err := h.auth.Login(c.Request().Context(), form)
	if err == nil {
		return c.Redirect(http.StatusSeeOther, "/home")
	}
	if httpErr := inFlight(err); httpErr != nil {
		return httpErr
	}

	// The password is never echoed back
	props := loginProps(services.LoginForm{UserID: form.UserID})
	status := http.StatusUnauthorized
	switch {
	case errors.Is(err, services.ErrNoUsers):
		props.Flash = shared.ErrorFlash(msgNoUsers)
	case errors.Is(err, services.ErrInvalidCredentials):
		props.Flash = shared.ErrorFlash(msgInvalidCredentials)
	default:
		if msg := firstFieldError(err); msg != "" {
			status = http.StatusUnprocessableEntity
			props.Flash = shared.ErrorFlash(msg)
			break
		}
		h.log.Error().Err(err).Msg("Login failed")
		status = http.StatusInternalServerError
		props.Flash = shared.ErrorFlash(msgGenericError)
	}
	return renderPage(c, status, pages.LoginPage(props))
}

func registerProps(form services.RegistrationForm) pages.RegisterPageProps {
	return pages.RegisterPageProps{
		Base: pages.Base{
			Title:       "Register",
			Breadcrumbs: []shared.Breadcrumb{{Title: "Login", URL: "/login"}, {Title: "Register"}},
		},
		Form:         form,
		Titles:       models.Titles,
		Strength:     validation.PasswordStrength(form.Password).Label,
		CountryCodes: countryCodes,
	}
}

// RegisterPage renders the registration form
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	form := services.RegistrationForm{MobileCode: models.DefaultCountryCode}
	return renderPage(c, http.StatusOK, pages.RegisterPage(registerProps(form)))
}

// HandleRegister creates the user and shows the registration summary
func (h *AuthHandler) HandleRegister(c echo.Context) error {
	var form services.RegistrationForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	user, err := h.auth.Register(c.Request().Context(), form)
	if err == nil {
		props := registerProps(services.RegistrationForm{})
		props.Registered = user
		return renderPage(c, http.StatusOK, pages.RegisterPage(props))
	}
	if httpErr := inFlight(err); httpErr != nil {
		return httpErr
	}

	retry := form.Trimmed()
	retry.Password, retry.ConfirmPassword = "", ""
	props := registerProps(retry)

	if errs, ok := fieldErrors(err); ok {
		props.Errors = errs
		props.Flash = shared.ErrorFlash(msgRegistrationFix)
		return renderPage(c, http.StatusUnprocessableEntity, pages.RegisterPage(props))
	}

	h.log.Error().Err(err).Str("user_id", form.UserID).Msg("Registration failed")
	props.Flash = shared.ErrorFlash(msgRegistrationError)
	return renderPage(c, http.StatusInternalServerError, pages.RegisterPage(props))
}

// PasswordStrength rates the password typed on the registration form
func (h *AuthHandler) PasswordStrength(c echo.Context) error {
	return c.JSON(http.StatusOK, validation.PasswordStrength(c.QueryParam("password")))
}

// HandleLogout asks for confirmation, then clears the session
func (h *AuthHandler) HandleLogout(c echo.Context) error {
	err := h.auth.Logout(c.Request().Context(), isConfirmed(c))
	if errors.Is(err, services.ErrConfirmationRequired) {
		props := pages.ConfirmProps{
			Base: pages.Base{
				Title:       "Logout",
				Breadcrumbs: shared.Crumbs(shared.Breadcrumb{Title: "Logout"}),
				UserID:      getStringFromContext(c, "userID"),
			},
			Message:   msgConfirmLogout,
			Action:    "/logout",
			CancelURL: "/home",
			Confirm:   "Logout",
		}
		return renderPage(c, http.StatusOK, pages.ConfirmPage(props))
	}
	if err != nil {
		return err
	}

	h.log.Info().Str("user_id", getStringFromContext(c, "userID")).Msg("User logged out")
	return c.Redirect(http.StatusSeeOther, "/login")
}
