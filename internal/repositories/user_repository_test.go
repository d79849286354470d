package repositories

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldmailer/internal/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password_hash)`)).
		WithArgs("a@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	u := &models.User{Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(u))
	assert.Equal(t, 7, u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password_hash)`)).
		WithArgs("a@x.com", "hash").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(&models.User{Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash"}).
		AddRow(1, "a@x.com", "hash")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash`)).
		WithArgs("a@x.com").
		WillReturnRows(rows)

	u, err := repo.GetByEmail("a@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash`)).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetByEmail("nobody@x.com")
	require.NoError(t, err) // отсутствие строки — не ошибка
	assert.Nil(t, u)
}

func TestUserRepository_EmailExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`)).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists("a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password_hash = $1 WHERE email = $2`)).
		WithArgs("newhash", "a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdatePasswordHash("a@x.com", "newhash"))
}

func TestUserRepository_UpdatePasswordHash_NoSuchUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password_hash = $1 WHERE email = $2`)).
		WithArgs("newhash", "nobody@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePasswordHash("nobody@x.com", "newhash")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
