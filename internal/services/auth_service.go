package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const sessionTokenTTL = 7 * 24 * time.Hour

var (
	// ErrTokenExpired / ErrInvalidToken — только для диагностики в логах;
	// для клиента оба означают 401.
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

type AuthService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(plain, hash string) bool
	GenerateToken(email string) (string, error)
	ParseToken(tokenStr string) (string, error)
}

type authService struct {
	jwtKey []byte
}

// NewAuthService требует непустой секрет: без него не подписываем и не
// проверяем ничего (fail closed, никаких дефолтных ключей).
func NewAuthService(jwtSecret string) (AuthService, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return &authService{jwtKey: []byte(jwtSecret)}, nil
}

func (s *authService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword — false на любой ошибке, включая битый хеш.
func (s *authService) CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *authService) GenerateToken(email string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		// jti: два логина в одну секунду не должны давать одинаковые токены
		ID: uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *authService) ParseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
