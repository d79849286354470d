package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coldmailer/internal/models"
)

var (
	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrResetTokenExpired  = errors.New("reset token expired")
)

type PasswordResetRepository interface {
	Create(email, token string, expiresAt time.Time) (*models.PasswordReset, error)
	// Consume удаляет токен и обновляет password_hash владельца в одной
	// транзакции; возвращает email владельца.
	Consume(token, newPasswordHash string) (string, error)
	DeleteExpired() (int64, error)
}

type passwordResetRepository struct {
	DB *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{DB: db}
}

func (r *passwordResetRepository) Create(email, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	const q = `
		INSERT INTO password_resets (email, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	pr := &models.PasswordReset{Email: email, Token: token, ExpiresAt: expiresAt}
	if err := r.DB.QueryRow(q, email, token, expiresAt).Scan(&pr.ID, &pr.CreatedAt); err != nil {
		return nil, err
	}
	return pr, nil
}

// Consume: DELETE ... RETURNING сериализует конкурентные вызовы на строке
// токена — из двух одновременных победит ровно один, второй получит
// ErrResetTokenNotFound. Просроченный токен удаляется (коммитим), но не
// принимается.
func (r *passwordResetRepository) Consume(token, newPasswordHash string) (string, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return "", fmt.Errorf("begin consume tx: %w", err)
	}

	const del = `
		DELETE FROM password_resets
		WHERE token = $1
		RETURNING email, expires_at
	`
	var (
		email     string
		expiresAt time.Time
	)
	if err := tx.QueryRow(del, token).Scan(&email, &expiresAt); err != nil {
		tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrResetTokenNotFound
		}
		return "", err
	}

	if time.Now().After(expiresAt) {
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("commit expired token delete: %w", err)
		}
		return "", ErrResetTokenExpired
	}

	const upd = `UPDATE users SET password_hash = $1 WHERE email = $2`
	res, err := tx.Exec(upd, newPasswordHash, email)
	if err != nil {
		tx.Rollback()
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return "", err
	}
	if n == 0 {
		// аккаунт исчез между выдачей и использованием токена
		tx.Rollback()
		return "", ErrResetTokenNotFound
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit consume tx: %w", err)
	}
	return email, nil
}

func (r *passwordResetRepository) DeleteExpired() (int64, error) {
	const q = `DELETE FROM password_resets WHERE expires_at < NOW()`
	res, err := r.DB.Exec(q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
