package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"coldmailer/internal/models"
)

// ErrEmailTaken — вставка с уже занятым email (unique violation).
var ErrEmailTaken = errors.New("email already taken")

type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
	UpdatePasswordHash(email, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.DB.QueryRow(q, user.Email, user.PasswordHash).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
		SELECT id, email, password_hash
		FROM users
		WHERE email = $1
	`
	u := &models.User{}
	if err := r.DB.QueryRow(q, email).Scan(&u.ID, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.DB.QueryRow(q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) UpdatePasswordHash(email, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $1 WHERE email = $2`
	res, err := r.DB.Exec(q, passwordHash, email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
