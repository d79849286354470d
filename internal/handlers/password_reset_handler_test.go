package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldmailer/internal/services"
)

type stubResetService struct {
	requested []string
	reqErr    error
	resetErr  error
}

func (s *stubResetService) RequestReset(email string) error {
	s.requested = append(s.requested, email)
	return s.reqErr
}

func (s *stubResetService) ResetPassword(token, newPassword string) error {
	return s.resetErr
}

func newResetRouter(t *testing.T, svc services.PasswordResetService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewPasswordResetHandler(svc)
	r := gin.New()
	r.POST("/forgot-password", h.ForgotPassword)
	r.POST("/reset-password", h.ResetPassword)
	return r
}

// Тело ответа forgot-password должно быть байт-в-байт одинаковым и для
// существующего, и для неизвестного email.
func TestForgotPasswordHandler_IdenticalResponses(t *testing.T) {
	r := newResetRouter(t, &stubResetService{})

	wKnown := doJSON(r, http.MethodPost, "/forgot-password", gin.H{"email": "a@x.com"}, nil)
	wUnknown := doJSON(r, http.MethodPost, "/forgot-password", gin.H{"email": "nobody@x.com"}, nil)

	assert.Equal(t, http.StatusOK, wKnown.Code)
	assert.Equal(t, http.StatusOK, wUnknown.Code)
	assert.Equal(t, wKnown.Body.Bytes(), wUnknown.Body.Bytes())
}

// Сбой внутри RequestReset не должен менять ни статус, ни тело ответа.
func TestForgotPasswordHandler_ServiceErrorHidden(t *testing.T) {
	ok := doJSON(newResetRouter(t, &stubResetService{}), http.MethodPost, "/forgot-password", gin.H{"email": "a@x.com"}, nil)
	failed := doJSON(newResetRouter(t, &stubResetService{reqErr: errors.New("db down")}), http.MethodPost, "/forgot-password", gin.H{"email": "a@x.com"}, nil)

	assert.Equal(t, http.StatusOK, failed.Code)
	assert.Equal(t, ok.Body.Bytes(), failed.Body.Bytes())
}

func TestForgotPasswordHandler_MissingEmail(t *testing.T) {
	r := newResetRouter(t, &stubResetService{})

	w := doJSON(r, http.MethodPost, "/forgot-password", gin.H{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetPasswordHandler_Success(t *testing.T) {
	r := newResetRouter(t, &stubResetService{})

	w := doJSON(r, http.MethodPost, "/reset-password", gin.H{"token": "tok", "new_password": "pw2"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Password reset successful")
}

func TestResetPasswordHandler_InvalidToken(t *testing.T) {
	r := newResetRouter(t, &stubResetService{resetErr: services.ErrInvalidOrExpiredToken})

	w := doJSON(r, http.MethodPost, "/reset-password", gin.H{"token": "bad", "new_password": "pw2"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestResetPasswordHandler_InternalError(t *testing.T) {
	r := newResetRouter(t, &stubResetService{resetErr: errors.New("db down")})

	w := doJSON(r, http.MethodPost, "/reset-password", gin.H{"token": "tok", "new_password": "pw2"}, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestResetPasswordHandler_MissingFields(t *testing.T) {
	r := newResetRouter(t, &stubResetService{})

	w := doJSON(r, http.MethodPost, "/reset-password", gin.H{"token": "tok"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
