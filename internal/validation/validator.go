package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Messages maps a form field, or "field.tag" for a single rule, to the text shown to the user.
type Messages map[string]string

// Form is a struct with validate tags that knows its own user-facing messages
type Form interface {
	Messages() Messages
}

// Errors collects one message per form field in the order fields failed.
type Errors struct {
	fields map[string]string
	order  []string
}

func NewErrors() *Errors {
	return &Errors{fields: make(map[string]string)}
}

// Add records msg for field unless the field already has a message
func (e *Errors) Add(field, msg string) {
	if _, ok := e.fields[field]; ok {
		return
	}
	e.fields[field] = msg
	e.order = append(e.order, field)
}

// Set records msg for field, replacing an earlier message
func (e *Errors) Set(field, msg string) {
	if _, ok := e.fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.fields[field] = msg
}

func (e *Errors) Get(field string) string {
	if e == nil {
		return ""
	}
	return e.fields[field]
}

func (e *Errors) Has(field string) bool {
	if e == nil {
		return false
	}
	_, ok := e.fields[field]
	return ok
}

func (e *Errors) Len() int {
	if e == nil {
		return 0
	}
	return len(e.order)
}

// Fields returns field names in failure order
func (e *Errors) Fields() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.order...)
}

// Map returns a copy keyed by field name, handy for templates and JSON
func (e *Errors) Map() map[string]string {
	out := make(map[string]string, e.Len())
	if e == nil {
		return out
	}
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.order))
	for _, f := range e.order {
		parts = append(parts, f+": "+e.fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns e as an error, or nil when nothing was recorded
func (e *Errors) Err() error {
	if e.Len() == 0 {
		return nil
	}
	return e
}

// AsErrors unwraps field errors from err
func AsErrors(err error) (*Errors, bool) {
	var fe *Errors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

const defaultMessage = "Invalid value."

// Validator runs struct-tag validation with the portal's field rules registered.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New registers the custom tags. now drives the card expiry rule.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"present": func(fl validator.FieldLevel) bool {
			return IsRequired(fl.Field().String())
		},
		"digits": func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return IsDigits(fl.Field().String(), n)
		},
		"minlen": func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return HasMinLength(fl.Field().String(), n)
		},
		"email_shape": func(fl validator.FieldLevel) bool {
			return IsEmail(fl.Field().String())
		},
		"user_id": func(fl validator.FieldLevel) bool {
			return IsUserID(fl.Field().String())
		},
		"password_rules": func(fl validator.FieldLevel) bool {
			return IsPassword(fl.Field().String())
		},
		"luhn": func(fl validator.FieldLevel) bool {
			return Luhn(fl.Field().String())
		},
		"card_holder": func(fl validator.FieldLevel) bool {
			return IsCardHolder(fl.Field().String())
		},
		"expiry": func(fl validator.FieldLevel) bool {
			return IsExpiry(fl.Field().String(), v.now())
		},
	}
	for tag, fn := range rules {
		// Registration only fails on an empty tag or nil func.
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// Check validates form and returns the collected field errors, possibly empty.
// The result is never nil so callers can add their own checks.
func (v *Validator) Check(form Form) *Errors {
	out := NewErrors()
	err := v.validate.Struct(form)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("form", err.Error())
		return out
	}

	msgs := form.Messages()
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg, ok = msgs[field]
		}
		if !ok {
			msg = defaultMessage
		}
		out.Add(field, msg)
	}
	return out
}
