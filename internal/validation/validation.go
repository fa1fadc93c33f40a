// Package validation checks user-entered form fields. Failures are returned
// to the caller for display and are never logged as errors.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failed field of one form, in check order
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// Fields maps each failed field to its first message
func (e ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, v := range e {
		if _, ok := out[v.Field]; !ok {
			out[v.Field] = v.Message
		}
	}
	return out
}

// Collector accumulates field errors for a form
type Collector struct {
	errs ValidationErrors
}

// Add records a failure for field
func (c *Collector) Add(field, message string) {
	c.errs = append(c.errs, ValidationError{Field: field, Message: message})
}

// Check records err when it is a ValidationError
func (c *Collector) Check(err error) {
	if err == nil {
		return
	}
	if v, ok := err.(ValidationError); ok {
		c.errs = append(c.errs, v)
		return
	}
	c.Add("form", err.Error())
}

// Err returns nil when nothing failed
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs
}

var (
	indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)
	tenDigits    = regexp.MustCompile(`^[0-9]{10}$`)
)

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s is required", humanize(field)),
		}
	}
	return nil
}

func MaxLength(field, value string, n int) error {
	if len([]rune(value)) > n {
		return ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d characters", humanize(field), n),
		}
	}
	return nil
}

func Email(field, value string) error {
	if err := Required(field, value); err != nil {
		return err
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@"):], ".") {
		return ValidationError{
			Field:   field,
			Message: "please enter a valid email address",
		}
	}
	return nil
}

func Password(field, value string) error {
	if len(value) < 6 {
		return ValidationError{
			Field:   field,
			Message: "password must be at least 6 characters",
		}
	}
	return nil
}

// IndianMobile accepts a 10-digit mobile number starting with 6-9
func IndianMobile(field, value string) error {
	if !indianMobile.MatchString(value) {
		return ValidationError{
			Field:   field,
			Message: "please enter a valid 10-digit mobile number",
		}
	}
	return nil
}

// TenDigitPhone accepts any 10-digit number
func TenDigitPhone(field, value string) error {
	if !tenDigits.MatchString(value) {
		return ValidationError{
			Field:   field,
			Message: "please enter a valid 10-digit phone number",
		}
	}
	return nil
}

// OTP accepts exactly length digits
func OTP(field, value string, length int) error {
	if len(value) != length || strings.Trim(value, "0123456789") != "" {
		return ValidationError{
			Field:   field,
			Message: fmt.Sprintf("please enter a valid %d-digit OTP", length),
		}
	}
	return nil
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
