package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	expiryPattern     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cardHolderPattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// IsDigits reports whether s is exactly n ASCII digits
func IsDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func IsConsumerID(s string) bool { return IsDigits(s, 13) }

func IsBillNumber(s string) bool { return IsDigits(s, 5) }

func IsPhone(s string) bool { return IsDigits(s, 10) }

func IsCVV(s string) bool { return IsDigits(s, 3) }

// IsEmail checks the local@domain.tld shape only
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// UserIDLength bounds
const (
	MinUserIDLength = 5
	MaxUserIDLength = 20
)

func IsUserID(s string) bool {
	n := len([]rune(s))
	return n >= MinUserIDLength && n <= MaxUserIDLength
}

type passwordClasses struct {
	length, lower, upper, digit bool
}

func classify(pw string) passwordClasses {
	c := passwordClasses{length: len([]rune(pw)) >= 8}
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			c.lower = true
		case r >= 'A' && r <= 'Z':
			c.upper = true
		case r >= '0' && r <= '9':
			c.digit = true
		}
	}
	return c
}

// IsPassword requires 8+ characters with a lowercase letter, an uppercase letter and a digit.
func IsPassword(pw string) bool {
	c := classify(pw)
	return c.length && c.lower && c.upper && c.digit
}

// Strength labels
const (
	StrengthNone   = "-"
	StrengthWeak   = "Weak"
	StrengthMedium = "Medium"
	StrengthStrong = "Strong"
)

// Strength is an advisory password rating
type Strength struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

// PasswordStrength scores one point for each satisfied rule of IsPassword.
func PasswordStrength(pw string) Strength {
	if pw == "" {
		return Strength{Label: StrengthNone}
	}
	c := classify(pw)
	score := 0
	for _, ok := range []bool{c.length, c.lower, c.upper, c.digit} {
		if ok {
			score++
		}
	}

	label := StrengthWeak
	switch {
	case score >= 4:
		label = StrengthStrong
	case score == 3:
		label = StrengthMedium
	}
	return Strength{Label: label, Score: score}
}

// NormalizeCardNumber strips the spaces used to group card digits
func NormalizeCardNumber(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func IsCardNumberLength(s string) bool { return IsDigits(s, 16) }

// Luhn runs the mod-10 checksum over a digit string
func Luhn(s string) bool {
	if s == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// IsCardNumber applies the length and checksum rules to a normalized number
func IsCardNumber(s string) bool {
	return IsCardNumberLength(s) && Luhn(s)
}

// IsCardHolder requires at least 10 characters of letters and spaces after trimming
func IsCardHolder(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 10 && cardHolderPattern.MatchString(s)
}

// IsExpiry accepts MM/YY not earlier than the month of now.
func IsExpiry(s string, now time.Time) bool {
	if !expiryPattern.MatchString(s) {
		return false
	}
	mm, _ := strconv.Atoi(s[:2])
	yy, _ := strconv.Atoi(s[3:])
	if mm < 1 || mm > 12 {
		return false
	}
	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if yy < curYear || (yy == curYear && mm < curMonth) {
		return false
	}
	return true
}

// IsRequired reports whether s has content after trimming
func IsRequired(s string) bool {
	return strings.TrimSpace(s) != ""
}

// HasMinLength checks the trimmed rune length
func HasMinLength(s string, n int) bool {
	return len([]rune(strings.TrimSpace(s))) >= n
}
