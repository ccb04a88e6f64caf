package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"ems_portal/internal/models"
	"ems_portal/internal/storage"
	"ems_portal/internal/validation"
)

// RegistrationForm is the data submitted on the registration page
type RegistrationForm struct {
	ConsumerID      string `form:"consumerId" validate:"digits=13"`
	BillNumber      string `form:"billNumber" validate:"digits=5"`
	Title           string `form:"title" validate:"present"`
	Name            string `form:"name" validate:"present"`
	Email           string `form:"email" validate:"email_shape"`
	MobileCode      string `form:"mobileCode"`
	Mobile          string `form:"mobile" validate:"digits=10"`
	UserID          string `form:"userId" validate:"user_id"`
	Password        string `form:"password" validate:"password_rules"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
}

func (RegistrationForm) Messages() validation.Messages {
	return validation.Messages{
		"consumerId":      "Consumer ID must be exactly 13 digits.",
		"billNumber":      "Bill Number must be exactly 5 digits.",
		"title":           "Title is required.",
		"name":            "Customer Name is required.",
		"email":           "Please enter a valid email address.",
		"mobile":          "Mobile number must be exactly 10 digits.",
		"userId":          "User ID must be between 5 and 20 characters.",
		"password":        "Password must be at least 8 characters and include uppercase, lowercase and a number.",
		"confirmPassword": "Passwords do not match.",
	}
}

// Trimmed returns the form with surrounding whitespace removed from text
// fields. Passwords are kept as typed.
func (f RegistrationForm) Trimmed() RegistrationForm {
	f.ConsumerID = strings.TrimSpace(f.ConsumerID)
	f.BillNumber = strings.TrimSpace(f.BillNumber)
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Mobile = strings.TrimSpace(f.Mobile)
	f.UserID = strings.TrimSpace(f.UserID)
	if f.MobileCode == "" {
		f.MobileCode = models.DefaultCountryCode
	}
	return f
}

const msgUserIDTaken = "This User ID is already taken."

// LoginForm is the data submitted on the login page
type LoginForm struct {
	UserID   string `form:"userId" validate:"present"`
	Password string `form:"password" validate:"required"`
}

func (LoginForm) Messages() validation.Messages {
	return validation.Messages{
		"userId":   "User ID is required.",
		"password": "Password is required.",
	}
}

// AuthService handles registration, login and the session lifecycle
type AuthService struct {
	store     *storage.Local
	validator *validation.Validator
	loginOpts Options
	regOpts   Options
	intn      func(n int) int
	log       zerolog.Logger
}

// NewAuthService takes separate options for login and registration so each
// can carry its own simulated latency.
func NewAuthService(store *storage.Local, v *validation.Validator, login, register Options) *AuthService {
	login = login.withDefaults()
	register = register.withDefaults()
	return &AuthService{
		store:     store,
		validator: v,
		loginOpts: login,
		regOpts:   register,
		intn:      rand.IntN,
		log:       login.Log,
	}
}

// generateCustomerID returns 13 random digits. Collisions are not checked.
func (s *AuthService) generateCustomerID() string {
	var b strings.Builder
	for i := 0; i < 13; i++ {
		b.WriteByte(byte('0' + s.intn(10)))
	}
	return b.String()
}

// CheckRegistration validates every field and the user id uniqueness,
// returning all problems at once.
func (s *AuthService) CheckRegistration(ctx context.Context, form RegistrationForm) (RegistrationForm, []models.User, error) {
	form = form.Trimmed()
	errs := s.validator.Check(form)

	users, err := s.store.Users(ctx)
	if err != nil {
		return form, nil, err
	}
	for _, u := range users {
		if u.UserID == form.UserID {
			errs.Set("userId", msgUserIDTaken)
			break
		}
	}
	return form, users, errs.Err()
}

// Register creates a new user record after validation succeeds
func (s *AuthService) Register(ctx context.Context, form RegistrationForm) (*models.User, error) {
	release, err := s.regOpts.Guard.Acquire(ctx, guardKey(ctx, "register"))
	if err != nil {
		return nil, err
	}
	defer release()

	form, users, err := s.CheckRegistration(ctx, form)
	if err != nil {
		return nil, err
	}

	if err := simulateLatency(ctx, s.regOpts.Delay); err != nil {
		return nil, err
	}

	user := models.User{
		CustomerID: s.generateCustomerID(),
		ConsumerID: form.ConsumerID,
		BillNumber: form.BillNumber,
		Title:      form.Title,
		Name:       form.Name,
		Email:      form.Email,
		Mobile:     models.Mobile{Code: form.MobileCode, Number: form.Mobile},
		UserID:     form.UserID,
		Password:   form.Password,
	}
	users = append(users, user)
	if err := s.store.SetUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	saved, err := s.findUser(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, ErrUserNotSaved
	}

	s.log.Info().Str("user_id", user.UserID).Str("customer_id", user.CustomerID).Msg("User registered")
	return &user, nil
}

func (s *AuthService) findUser(ctx context.Context, userID string) (*models.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			return &users[i], nil
		}
	}
	return nil, nil
}

// Login checks credentials and opens a session for the browser context in ctx
func (s *AuthService) Login(ctx context.Context, form LoginForm) (*models.Session, error) {
	form.UserID = strings.TrimSpace(form.UserID)
	if err := s.validator.Check(form).Err(); err != nil {
		return nil, err
	}

	release, err := s.loginOpts.Guard.Acquire(ctx, guardKey(ctx, "login"))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := simulateLatency(ctx, s.loginOpts.Delay); err != nil {
		return nil, err
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	for _, u := range users {
		if u.UserID == form.UserID && u.Password == form.Password {
			session := &models.Session{UserID: u.UserID, CustomerID: u.CustomerID, Name: u.Name}
			if err := s.store.SetSession(ctx, session); err != nil {
				return nil, fmt.Errorf("save session: %w", err)
			}
			s.log.Info().Str("user_id", u.UserID).Msg("User logged in")
			return session, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Logout clears the session once the user has confirmed
func (s *AuthService) Logout(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	return s.store.SetSession(ctx, nil)
}

// CurrentSession returns the active session or nil
func (s *AuthService) CurrentSession(ctx context.Context) (*models.Session, error) {
	return s.store.Session(ctx)
}

// CurrentUser resolves the full record behind the active session
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	session, err := s.store.Session(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotLoggedIn
	}
	return s.findUser(ctx, session.UserID)
}
