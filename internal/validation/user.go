package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
)

var usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ValidateUsername allows letters, digits and @.+-_ up to 150 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may contain only letters, numbers, and @/./+/-/_ characters")
	}
	return nil
}

// ValidatePassword checks length and rejects all-digit passwords.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if strings.Trim(password, "0123456789") == "" {
		return fmt.Errorf("password cannot be entirely numeric")
	}
	return nil
}

// SignupInput is the raw signup form.
type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Password1 string
	Password2 string
}

// ValidateSignup checks the signup form field by field.
func ValidateSignup(in SignupInput) error {
	fields := FieldErrors{}

	if err := ValidateUsername(strings.TrimSpace(in.Username)); err != nil {
		fields.Add("username", err.Error())
	}
	if utf8.RuneCountInString(in.FirstName) > 150 {
		fields.Add("first_name", "first name must not exceed 150 characters")
	}
	if utf8.RuneCountInString(in.LastName) > 150 {
		fields.Add("last_name", "last name must not exceed 150 characters")
	}
	if in.Password1 == "" {
		fields.Add("password1", MsgRequired)
	} else if err := ValidatePassword(in.Password1); err != nil {
		fields.Add("password1", err.Error())
	}
	if in.Password1 != in.Password2 {
		fields.Add("password2", "The two password fields didn't match.")
	}

	return fields.Err()
}
