package authservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/taskpad/backend/authsvc"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (authsvc.User, error)
	Login(ctx context.Context, email, password string) (string, authsvc.User, error)
}

func New(u authsvc.UserRepository, t Tokenizer, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(u, t)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	users     authsvc.UserRepository
	tokenizer Tokenizer
}

func NewBasicService(u authsvc.UserRepository, t Tokenizer) Service {
	return basicService{users: u, tokenizer: t}
}

func (s basicService) Register(_ context.Context, name, email, password string) (authsvc.User, error) {
	if name == "" || email == "" || password == "" {
		return authsvc.User{}, authsvc.ErrInvalidArgument
	}

	if _, err := s.users.FindByEmail(email); err == nil {
		return authsvc.User{}, authsvc.ErrEmailTaken
	} else if err != authsvc.ErrUserNotFound {
		return authsvc.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return authsvc.User{}, err
	}

	return s.users.Create(authsvc.User{Name: name, Email: email, Password: string(hash)})
}

func (s basicService) Login(_ context.Context, email, password string) (string, authsvc.User, error) {
	if email == "" || password == "" {
		return "", authsvc.User{}, authsvc.ErrInvalidArgument
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if err == authsvc.ErrUserNotFound {
			return "", authsvc.User{}, authsvc.ErrInvalidCredentials
		}
		return "", authsvc.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", authsvc.User{}, authsvc.ErrInvalidCredentials
	}

	token, err := s.tokenizer.Generate(user)
	if err != nil {
		return "", authsvc.User{}, err
	}

	return token, user, nil
}
