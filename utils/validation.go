package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Add records a failure for field
func (e *FieldValidationErrors) Add(field, message string) {
	*e = append(*e, FieldValidationError{Field: field, Message: message})
}

// MinPasswordLength applies to registration and password changes
const MinPasswordLength = 8

var (
	usernameRegex    = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex       = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
	capitalizedRegex = regexp.MustCompile(`^[A-Z][a-zA-Z ]*$`)
	wordRegex        = regexp.MustCompile(`\b\w+\b`)
	linkRegex        = regexp.MustCompile(`https?://\S+`)
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)

	sqlInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(union\s+(all\s+)?select)`),
		regexp.MustCompile(`(?i)(insert\s+into)`),
		regexp.MustCompile(`(?i)(delete\s+from)`),
		regexp.MustCompile(`(?i)(drop\s+table)`),
		regexp.MustCompile(`(?i)(--\s*$)`),
		regexp.MustCompile(`(?i)(/\*.*\*/)`),
		regexp.MustCompile(`(?i)(;.*$)`),
	}
	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(<script.*>)`),
		regexp.MustCompile(`(?i)(javascript:)`),
		regexp.MustCompile(`(?i)(on(load|error|click)=)`),
		regexp.MustCompile(`(?i)(document\.(cookie|write))`),
	}
)

// SanitizeString strips tags and escapes what is left
func SanitizeString(input string) string {
	return html.EscapeString(htmlTagRegex.ReplaceAllString(input, ""))
}

// ValidateSafeInput rejects common SQL injection and XSS payloads
func ValidateSafeInput(input string) (bool, string) {
	for _, p := range sqlInjectionPatterns {
		if p.MatchString(input) {
			return false, "SQL injection attempt detected"
		}
	}
	for _, p := range xssPatterns {
		if p.MatchString(input) {
			return false, "XSS attempt detected"
		}
	}
	return true, ""
}

// ValidateUsername checks if the username meets the requirements and is safe
func ValidateUsername(username string) (bool, string) {
	if valid, msg := ValidateSafeInput(username); !valid {
		return false, "Username: " + msg
	}
	if !usernameRegex.MatchString(username) {
		return false, "Username must be 3-20 characters of letters, numbers, and underscores"
	}
	return true, ""
}

// ValidateEmail checks if the email is valid and safe
func ValidateEmail(email string) (bool, string) {
	if valid, msg := ValidateSafeInput(email); !valid {
		return false, "Email: " + msg
	}
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword checks the minimum password length
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	return true, ""
}

// ValidatePhone checks an optional phone number
func ValidatePhone(phone string) (bool, string) {
	if phone == "" {
		return true, ""
	}
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if !phoneRegex.MatchString(cleaned) {
		return false, "Phone number must contain 6 to 15 digits"
	}
	return true, cleaned
}

// ValidateReadingFrequency accepts the known frequencies or an empty value
func ValidateReadingFrequency(freq string) bool {
	switch freq {
	case "", "daily", "weekly", "monthly", "rarely":
		return true
	}
	return false
}

// ValidateCapitalized checks text starts with an upper-case letter and holds only letters and spaces
func ValidateCapitalized(text, field string) (bool, string) {
	if !capitalizedRegex.MatchString(text) {
		return false, fmt.Sprintf("%s must start with an upper-case letter and contain only letters and spaces", field)
	}
	return true, ""
}

// ValidateBookTitle checks the catalog rules for a book title
func ValidateBookTitle(title string) (bool, string) {
	title = strings.TrimSpace(title)
	if len([]rune(title)) < 3 {
		return false, "Title must contain at least 3 characters"
	}
	if first := []rune(title)[0]; !unicode.IsUpper(first) {
		return false, "Title must start with an upper-case letter"
	}
	return true, ""
}

// ValidatePriceRange checks optional price bounds
func ValidatePriceRange(min, max *decimal.Decimal) (bool, string) {
	if min != nil && min.IsNegative() {
		return false, "Minimum price cannot be negative"
	}
	if max != nil && max.IsNegative() {
		return false, "Maximum price cannot be negative"
	}
	if min != nil && max != nil && min.GreaterThan(*max) {
		return false, "Minimum price cannot be greater than maximum price"
	}
	return true, ""
}

// ValidateRating validates a review rating
func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}

// Words returns the words of text
func Words(text string) []string {
	return wordRegex.FindAllString(text, -1)
}

// ContainsLink reports whether text holds an http(s) link
func ContainsLink(text string) bool {
	return linkRegex.MatchString(text)
}

// CollapseWhitespace replaces newlines and runs of spaces with single spaces
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// AgeOn returns the completed years and the months past the last birthday
func AgeOn(birth, today time.Time) (years, months int) {
	years = today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	months = int(today.Month()) - int(birth.Month())
	if today.Day() < birth.Day() {
		months--
	}
	if months < 0 {
		months += 12
	}
	return years, months
}
