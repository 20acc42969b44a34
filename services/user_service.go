// services/user_service.go
package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-reservation/models"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func secureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Register creates a user with a bcrypt-hashed password and a fresh
// API token.
func (s *UserService) Register(name, email, password, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	token, err := secureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
		APIToken: token,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrDuplicateName, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Authenticate verifies credentials and rotates the user's API token
// on success. Unknown emails and bad passwords are indistinguishable
// to the caller.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := secureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	if err := s.DB.Model(&user).Update("api_token", token).Error; err != nil {
		return nil, fmt.Errorf("failed to rotate token: %w", err)
	}
	user.APIToken = token
	return &user, nil
}

// FindByToken resolves an API token to its user.
func (s *UserService) FindByToken(token string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("api_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user by token: %w", err)
	}
	return &user, nil
}
