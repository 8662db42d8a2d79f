package validator

import (
	"regexp"
	"strings"

	"codereview/errors"

	"github.com/gin-gonic/gin/binding"
	validatorv10 "github.com/go-playground/validator/v10"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxCodeLength        = 50000
	MaxCommentLength     = 2000
)

var (
	htmlTagRegex  = regexp.MustCompile(`<[^>]*>`)
	languageRegex = regexp.MustCompile(`^[a-z0-9+#._-]{1,30}$`)
)

// RegisterCustomValidations installs the custom binding rules on gin's
// validator engine. Call once at startup.
func RegisterCustomValidations() error {
	v, ok := binding.Validator.Engine().(*validatorv10.Validate)
	if !ok {
		return errors.NewAppError(errors.ErrCodeValidation, "Unexpected binding validator engine", nil)
	}
	return v.RegisterValidation("language", func(fl validatorv10.FieldLevel) bool {
		return languageRegex.MatchString(strings.ToLower(fl.Field().String()))
	})
}

// SanitizeText strips HTML tags and enforces a maximum length.
func SanitizeText(text string, maxLength int) (string, error) {
	if len(text) > maxLength {
		return "", errors.NewAppError(errors.ErrCodeTextTooLong, "Text too long", nil)
	}
	return strings.TrimSpace(htmlTagRegex.ReplaceAllString(text, "")), nil
}

// ValidateCodeContent checks submitted code for emptiness and size.
func ValidateCodeContent(code string) error {
	if len(code) > MaxCodeLength {
		return errors.NewAppError(errors.ErrCodeTextTooLong, "Code too long. Maximum 50,000 characters.", nil)
	}
	if strings.TrimSpace(code) == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Code cannot be empty.", nil)
	}
	return nil
}

// ValidateRating checks the 1-10 review rating bounds.
func ValidateRating(rating int) error {
	if rating < 1 || rating > 10 {
		return errors.NewAppError(errors.ErrCodeInvalidRating, "Rating must be between 1 and 10", nil)
	}
	return nil
}

// ValidateEmail checks email format.
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return errors.NewAppError(errors.ErrCodeInvalidEmail, "Invalid email", nil)
	}
	return nil
}

// ValidatePassword checks minimum password strength.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.NewAppError(errors.ErrCodeInvalidPassword, "Password must be at least 6 characters", nil)
	}
	return nil
}
