package utils

import (
	"errors"
	"time"

	"github.com/Govind-619/Bookstore/models"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// RememberMeTTL is the token lifetime for "remember me" logins
	RememberMeTTL = 24 * time.Hour
	// SessionTTL is the token lifetime for ordinary logins
	SessionTTL = 2 * time.Hour
)

var jwtSecret = []byte("change-me")

// SetJWTSecret sets the HMAC key used to sign and verify tokens
func SetJWTSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken creates a JWT token for a user valid for ttl
func GenerateToken(user *models.User, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.ID
	claims["username"] = user.Username
	claims["is_admin"] = user.IsAdmin
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString(jwtSecret)
}

// ValidateToken validates a JWT token and returns the user ID
func ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid user ID in token")
	}
	return uint(userID), nil
}

// NewConfirmationCode returns a random code for the e-mail confirmation link
func NewConfirmationCode() string {
	return uuid.NewString()
}
