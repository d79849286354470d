package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"coldmailer/internal/models"
	"coldmailer/internal/repositories"
)

var (
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials — одна ошибка и для "нет такого пользователя",
	// и для "неверный пароль", чтобы не подсвечивать существование аккаунта.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type UserService interface {
	Signup(email, password string) (string, error)
	Login(email, password string) (string, error)
}

type userService struct {
	repo repositories.UserRepository
	auth AuthService
}

func NewUserService(repo repositories.UserRepository, auth AuthService) UserService {
	return &userService{repo: repo, auth: auth}
}

// NormalizeEmail — канонический ключ аккаунта; одинаково применяется на
// signup, login и forgot-password.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *userService) Signup(email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("email and password are required")
	}

	exists, err := s.repo.EmailExists(email)
	if err != nil {
		return "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return "", ErrUserExists
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return "", err
	}

	user := &models.User{Email: email, PasswordHash: hash}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			// проиграли гонку с параллельной регистрацией
			return "", ErrUserExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.auth.GenerateToken(email)
	if err != nil {
		return "", err
	}
	log.Printf("[auth][signup] user created email=%q id=%d", email, user.ID)
	return token, nil
}

func (s *userService) Login(email, password string) (string, error) {
	email = NormalizeEmail(email)

	user, err := s.repo.GetByEmail(email)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		log.Printf("[auth][login] unknown email=%q", email)
		return "", ErrInvalidCredentials
	}

	if !s.auth.CheckPassword(password, user.PasswordHash) {
		log.Printf("[auth][login] password mismatch for userID=%d", user.ID)
		return "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(email)
	if err != nil {
		return "", err
	}
	log.Printf("[auth][login] success userID=%d", user.ID)
	return token, nil
}
