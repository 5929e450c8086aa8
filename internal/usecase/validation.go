package usecase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	domainErrors "github.com/polkiloo/usercreds/internal/domain/errors"
)

const (
	// MaxUsernameLength bounds usernames in characters.
	MaxUsernameLength = 64
	// MaxPasswordBytes is the bcrypt input limit; longer input would be
	// silently truncated by the hash.
	MaxPasswordBytes = 72
	maxAge           = 150
)

// NormalizeUsername trims surrounding space and validates what remains.
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return "", fmt.Errorf("%w: must not be empty", domainErrors.ErrInvalidUsername)
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		return "", fmt.Errorf("%w: longer than %d characters", domainErrors.ErrInvalidUsername, MaxUsernameLength)
	case strings.IndexFunc(username, unicode.IsControl) >= 0:
		return "", fmt.Errorf("%w: contains control characters", domainErrors.ErrInvalidUsername)
	}
	return username, nil
}

// ValidatePassword checks the length limits of a new password.
func ValidatePassword(password string, minLength int) error {
	if utf8.RuneCountInString(password) < minLength {
		return fmt.Errorf("%w: shorter than %d characters", domainErrors.ErrInvalidPassword, minLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: longer than %d bytes", domainErrors.ErrInvalidPassword, MaxPasswordBytes)
	}
	return nil
}

// ValidateAge accepts nil or a value in [0, 150].
func ValidateAge(age *int) error {
	if age != nil && (*age < 0 || *age > maxAge) {
		return fmt.Errorf("%w: age %d out of range", domainErrors.ErrInvalidProfile, *age)
	}
	return nil
}
