package authsvc

import (
	"errors"
	"os"
	"time"
)

// User is a registered account. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Create(user User) (User, error)
	FindByEmail(email string) (User, error)
}

// JWTSecret returns the token signing secret from the environment. An empty
// value means the process is misconfigured; token issuance must refuse to
// sign rather than fall back to a guessable key.
func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUserNotFound    = errors.New("user not found")

	// ErrEmailTaken and ErrInvalidCredentials carry the messages clients
	// display verbatim. Login failures share a single message so callers
	// cannot tell an unknown email from a wrong password.
	ErrEmailTaken         = errors.New("Email já cadastrado")
	ErrInvalidCredentials = errors.New("Credenciais inválidas")

	ErrSecretNotSet = errors.New("JWT_SECRET is not set in the environment")
)
