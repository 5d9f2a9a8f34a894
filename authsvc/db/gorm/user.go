package gorm

import (
	"errors"

	"github.com/taskpad/backend/authsvc"
	"github.com/twinj/uuid"
	stdgorm "gorm.io/gorm"
)

type userRepository struct {
	db *stdgorm.DB
}

func NewUserRepository(db *stdgorm.DB) authsvc.UserRepository {
	return &userRepository{db}
}

func (u *userRepository) Create(user authsvc.User) (authsvc.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewV4().String()
	}

	result := u.db.Create(&user)

	return user, result.Error
}

func (u *userRepository) FindByEmail(email string) (authsvc.User, error) {
	var user authsvc.User
	result := u.db.Where("email = ?", email).First(&user)

	if errors.Is(result.Error, stdgorm.ErrRecordNotFound) {
		return authsvc.User{}, authsvc.ErrUserNotFound
	}

	return user, result.Error
}
