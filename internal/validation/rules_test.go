package validation

import (
	"testing"
	"time"
)

func TestIsConsumerID(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1234567890123", true},
		{"0000000000001", true},
		{"123456789012", false},
		{"12345678901234", false},
		{"12345678901a3", false},
		{" 234567890123", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsConsumerID(tt.input); got != tt.expected {
				t.Errorf("IsConsumerID(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDigitRules(t *testing.T) {
	if !IsBillNumber("12345") || IsBillNumber("1234") {
		t.Error("bill number must be exactly 5 digits")
	}
	if !IsPhone("9876543210") || IsPhone("98765 43210") {
		t.Error("phone must be exactly 10 digits")
	}
	if !IsCVV("123") || IsCVV("1234") || IsCVV("12a") {
		t.Error("CVV must be exactly 3 digits")
	}
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"user@example.com", true},
		{"a.b@c.co.in", true},
		{"user@example", false},
		{"user example@x.com", false},
		{"@example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsEmail(tt.input); got != tt.expected {
				t.Errorf("IsEmail(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPasswordRulesAndStrength(t *testing.T) {
	tests := []struct {
		input     string
		valid     bool
		wantLabel string
		wantScore int
	}{
		{"Abcdefg1", true, StrengthStrong, 4},
		{"abcdefg1", false, StrengthMedium, 3},
		{"Abc12345", true, StrengthStrong, 4},
		{"abc", false, StrengthWeak, 1},
		{"Ab1", false, StrengthMedium, 3},
		{"ABCDEFGH", false, StrengthWeak, 2},
		{"", false, StrengthNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsPassword(tt.input); got != tt.valid {
				t.Errorf("IsPassword(%q) = %v; want %v", tt.input, got, tt.valid)
			}
			s := PasswordStrength(tt.input)
			if s.Label != tt.wantLabel || s.Score != tt.wantScore {
				t.Errorf("PasswordStrength(%q) = %+v; want %s/%d", tt.input, s, tt.wantLabel, tt.wantScore)
			}
		})
	}
}

func TestLuhn(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"4539578763621486", true},
		{"4539578763621487", false},
		{"4111111111111111", true},
		{"0000000000000000", true},
		{"4539 5787", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Luhn(tt.input); got != tt.expected {
				t.Errorf("Luhn(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsCardNumber(t *testing.T) {
	if !IsCardNumber(NormalizeCardNumber("4539 5787 6362 1486")) {
		t.Error("grouped valid card should pass after normalization")
	}
	if IsCardNumber("453957876362148") {
		t.Error("15 digits should fail")
	}
	if IsCardNumber("4539578763621487") {
		t.Error("bad checksum should fail")
	}
}

func TestIsCardHolder(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"John Smithson", true},
		{"  Jane Doe Roe  ", true},
		{"Jane Doe", false},
		{"John Smith 3rd", false},
		{"O'Brien Patrick", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsCardHolder(tt.input); got != tt.expected {
				t.Errorf("IsCardHolder(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsExpiry(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input    string
		expected bool
	}{
		{"03/26", true},
		{"12/26", true},
		{"01/30", true},
		{"02/26", false},
		{"01/20", false},
		{"13/30", false},
		{"00/30", false},
		{"3/26", false},
		{"03-26", false},
		{"03/2026", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsExpiry(tt.input, now); got != tt.expected {
				t.Errorf("IsExpiry(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsUserID(t *testing.T) {
	if IsUserID("abcd") || !IsUserID("abcde") || !IsUserID("abcdefghijklmnopqrst") || IsUserID("abcdefghijklmnopqrstu") {
		t.Error("user id must be 5 to 20 characters")
	}
}
