package services

import (
	"database/sql"
	"sync"
	"time"

	"coldmailer/internal/models"
	"coldmailer/internal/repositories"
)

// --- in-memory репозитории для тестов сервисов ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
	next  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Email]; ok {
		return repositories.ErrEmailTaken
	}
	f.next++
	user.ID = f.next
	cp := *user
	f.users[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) EmailExists(email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeResetEntry struct {
	email     string
	expiresAt time.Time
}

// fakeResetRepo повторяет контракт Consume: удаление токена и смена пароля
// под одним мьютексом, как одна транзакция.
type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]fakeResetEntry
	users  *fakeUserRepo
}

func newFakeResetRepo(users *fakeUserRepo) *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]fakeResetEntry), users: users}
}

func (f *fakeResetRepo) Create(email, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = fakeResetEntry{email: email, expiresAt: expiresAt}
	return &models.PasswordReset{Email: email, Token: token, ExpiresAt: expiresAt}, nil
}

func (f *fakeResetRepo) Consume(token, newPasswordHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.tokens[token]
	if !ok {
		return "", repositories.ErrResetTokenNotFound
	}
	delete(f.tokens, token)
	if time.Now().After(entry.expiresAt) {
		return "", repositories.ErrResetTokenExpired
	}
	if err := f.users.UpdatePasswordHash(entry.email, newPasswordHash); err != nil {
		return "", repositories.ErrResetTokenNotFound
	}
	return entry.email, nil
}

func (f *fakeResetRepo) DeleteExpired() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for tok, entry := range f.tokens {
		if time.Now().After(entry.expiresAt) {
			delete(f.tokens, tok)
			n++
		}
	}
	return n, nil
}

// --- уведомления ---

type fakeEmailService struct {
	mu      sync.Mutex
	sent    []sentEmail
	sendErr error
}

type sentEmail struct {
	email string
	token string
}

func (f *fakeEmailService) SendPasswordResetEmail(email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentEmail{email: email, token: token})
	return nil
}

type fakeAlertService struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeAlertService) NotifyResetEmailFailure(email string, cause error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, email)
}
