package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid", "priya@example.com", false},
		{"subdomain", "a.b@mail.example.in", false},
		{"empty", "", true},
		{"missing at", "priya.example.com", true},
		{"missing dot in domain", "priya@example", true},
		{"display name form", "Priya <priya@example.com>", true},
		{"spaces", "priya @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email("email", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Email(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestIndianMobile(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"9876543210", false},
		{"6000000000", false},
		{"5876543210", true},
		{"987654321", true},
		{"98765432100", true},
		{"98765abcde", true},
		{"+919876543210", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := IndianMobile("mobile", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("IndianMobile(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestTenDigitPhone(t *testing.T) {
	assert.NoError(t, TenDigitPhone("mobile", "0123456789"))
	assert.Error(t, TenDigitPhone("mobile", "012345678"))
	assert.Error(t, TenDigitPhone("mobile", "01234-56789"))
}

func TestOTP(t *testing.T) {
	assert.NoError(t, OTP("otp", "012345", 6))
	assert.Error(t, OTP("otp", "12345", 6))
	assert.Error(t, OTP("otp", "12345a", 6))
	assert.Error(t, OTP("otp", "", 6))
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("password", "secret"))
	assert.Error(t, Password("password", "short"))
}

func TestCollector(t *testing.T) {
	var c Collector
	assert.NoError(t, c.Err())

	c.Check(Required("full_name", " "))
	c.Check(Email("email", "bad"))
	c.Check(nil)
	c.Check(MaxLength("message", "too long", 3))

	err := c.Err()
	require.Error(t, err)

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 3)
	assert.Equal(t, "full name is required", errs.Fields()["full_name"])
	assert.Contains(t, err.Error(), "email: please enter a valid email address")
}
