package authservice

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/taskpad/backend/authsvc"
)

// Tokenizer signs bearer tokens for authenticated users. The token embeds
// only the user id and email; profile fields that could go stale relative to
// the store are left out.
type Tokenizer interface {
	Generate(user authsvc.User) (string, error)
}

type tokenizer struct{}

func NewTokenizer() Tokenizer {
	return &tokenizer{}
}

func (t *tokenizer) Generate(user authsvc.User) (string, error) {
	secret := authsvc.JWTSecret()
	if secret == "" {
		return "", authsvc.ErrSecretNotSet
	}

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(TokenExpiry()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

func TokenExpiry() time.Duration {
	return time.Hour * 24
}
