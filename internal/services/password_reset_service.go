package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"coldmailer/internal/repositories"
	"coldmailer/internal/utils"
)

const resetTokenTTL = 15 * time.Minute

// ErrInvalidOrExpiredToken — наружу не различаем "не найден" и "просрочен".
var ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	userRepo repositories.UserRepository
	repo     repositories.PasswordResetRepository
	emails   EmailService
	alerts   AlertService
	auth     AuthService
}

func NewPasswordResetService(userRepo repositories.UserRepository, repo repositories.PasswordResetRepository, emails EmailService, alerts AlertService, auth AuthService) PasswordResetService {
	return &passwordResetService{
		userRepo: userRepo,
		repo:     repo,
		emails:   emails,
		alerts:   alerts,
		auth:     auth,
	}
}

// RequestReset для несуществующего email молча отрабатывает успешно —
// ответ хендлера одинаковый в обоих случаях.
func (s *passwordResetService) RequestReset(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}

	exists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if !exists {
		log.Printf("[password-reset] request for unknown email=%q", email)
		return nil
	}

	token, err := utils.NewResetToken(32)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expires := time.Now().Add(resetTokenTTL)
	if _, err := s.repo.Create(email, token, expires); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if s.emails != nil {
		if err := s.emails.SendPasswordResetEmail(email, token); err != nil {
			// письмо не ушло — ответ клиенту не меняем, но шумим в ops-канал
			log.Printf("[password-reset] failed to send email to %s: %v", email, err)
			if s.alerts != nil {
				s.alerts.NotifyResetEmailFailure(email, err)
			}
		}
	}
	return nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return fmt.Errorf("token and password are required")
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	email, err := s.repo.Consume(token, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrResetTokenNotFound) || errors.Is(err, repositories.ErrResetTokenExpired) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	log.Printf("[password-reset] password updated for email=%q", email)
	return nil
}
