package services

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// sendTimeout ограничивает SMTP-раунд, чтобы зависший релей не держал
// запрос forgot-password.
const sendTimeout = 10 * time.Second

type EmailService interface {
	SendPasswordResetEmail(email, token string) error
}

type emailService struct {
	dialer       *gomail.Dialer
	from         string
	resetBaseURL string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail, resetBaseURL string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer:       dialer,
		from:         fromEmail,
		resetBaseURL: resetBaseURL,
	}
}

func (s *emailService) SendPasswordResetEmail(email, token string) error {
	resetLink := fmt.Sprintf("%s?token=%s", s.resetBaseURL, token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Reset your password")

	body := fmt.Sprintf(`
		<p>Hello,</p>
		<p>You requested to reset your password.</p>
		<p><a href="%s">Click here to reset your password</a></p>
		<p>This link will expire in 15 minutes.</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, resetLink)

	m.SetBody("text/html", body)

	// у gomail нет дедлайнов, поэтому страхуемся таймером
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send password reset email: %w", err)
		}
		return nil
	case <-time.After(sendTimeout):
		return fmt.Errorf("send password reset email: timed out after %s", sendTimeout)
	}
}
