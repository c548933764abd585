package app

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAuthDisabled indicates that no admin password hash is configured.
	ErrAuthDisabled = errors.New("authentication disabled")
)

// AuthService checks the single admin credential guarding write operations.
type AuthService struct {
	username     string
	passwordHash []byte
}

// NewAuthService creates an AuthService for the given bcrypt hash. An empty
// hash disables authentication.
func NewAuthService(username, passwordHash string) *AuthService {
	return &AuthService{username: username, passwordHash: []byte(passwordHash)}
}

// Enabled reports whether a credential is configured.
func (s *AuthService) Enabled() bool {
	return len(s.passwordHash) > 0
}

// Check verifies username and password against the configured credential.
func (s *AuthService) Check(username, password string) error {
	if !s.Enabled() {
		return ErrAuthDisabled
	}
	if !ConstantTimeCompare(username, s.username) {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for configuration.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
