package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// NewResetToken возвращает URL-safe токен; nBytes <= 0 -> 32 байта (256 бит).
func NewResetToken(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
