package services

import (
	"context"
	"strings"

	"codereview/config"
	"codereview/constants"
	"codereview/errors"
	"codereview/models"
	"codereview/validator"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash against a plaintext candidate.
func CheckPassword(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}

// RegisterUser validates and creates a new account. Email is normalized to
// lower case and must be unique.
func RegisterUser(db *gorm.DB, name, email, password string, role int) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validator.ValidateEmail(email); err != nil {
		return models.User{}, err
	}
	if err := validator.ValidatePassword(password); err != nil {
		return models.User{}, err
	}
	if role < constants.RoleStudent || role > constants.RoleAdmin {
		return models.User{}, errors.NewAppError(errors.ErrCodeInvalidRole, "Invalid role", nil)
	}

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return models.User{}, errors.NewAppError(errors.ErrCodeUserExists, "Email already registered.", nil)
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
		Status:   constants.UserStatusActive,
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// VerifyGoogleIDToken validates a Google sign-in ID token against the
// configured client id and returns its payload.
func VerifyGoogleIDToken(ctx context.Context, tokenID string) (*idtoken.Payload, error) {
	clientID := config.GetEnv("GOOGLE_CLIENT_ID")
	payload, err := idtoken.Validate(ctx, tokenID, clientID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "Invalid Google ID token", err)
	}
	return payload, nil
}
