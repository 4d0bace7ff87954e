package checkout

import (
	"regexp"
	"unicode/utf8"

	"github.com/Narutostha/ww/internal/domain"
)

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe  = regexp.MustCompile(`^\d{10}$`)
	postalRe = regexp.MustCompile(`^\d{5,6}$`)
)

// validateShippingForm checks every field independently so each invalid
// field gets its own inline error.
func validateShippingForm(form domain.ShippingForm) []FieldError {
	var fields []FieldError

	if utf8.RuneCountInString(form.FirstName) < 2 {
		fields = append(fields, FieldError{"first_name", "must be at least 2 characters"})
	}
	if utf8.RuneCountInString(form.LastName) < 2 {
		fields = append(fields, FieldError{"last_name", "must be at least 2 characters"})
	}
	if !emailRe.MatchString(form.Email) {
		fields = append(fields, FieldError{"email", "invalid email format"})
	}
	if !phoneRe.MatchString(form.Phone) {
		fields = append(fields, FieldError{"phone", "must be 10 digits"})
	}
	if !postalRe.MatchString(form.PostalCode) {
		fields = append(fields, FieldError{"postal_code", "must be 5-6 digits"})
	}
	if form.Address == "" {
		fields = append(fields, FieldError{"address", "this field is required"})
	}
	if form.City == "" {
		fields = append(fields, FieldError{"city", "this field is required"})
	}
	if form.Country == "" {
		fields = append(fields, FieldError{"country", "this field is required"})
	}

	return fields
}
