package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"coldmailer/internal/models"
	"coldmailer/internal/services"
)

// forgotPasswordMessage отдаётся всегда один и тот же, существует аккаунт
// или нет.
const forgotPasswordMessage = "If the email exists, a reset link has been sent"

type PasswordResetHandler struct {
	resetService services.PasswordResetService
}

func NewPasswordResetHandler(resetService services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resetService: resetService}
}

// @Summary      Запрос сброса пароля
// @Description  Отправляет ссылку для сброса, если аккаунт существует; ответ одинаковый в любом случае
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        forgot  body      models.ForgotPasswordRequest  true  "Email аккаунта"
// @Success      200     {object}  map[string]string
// @Failure      400     {object}  map[string]string
// @Router       /forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetService.RequestReset(req.Email); err != nil {
		// логируем, но ответ не меняем — иначе по коду ответа видно,
		// существует ли аккаунт
		log.Printf("[password-reset] request failed: err=%v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": forgotPasswordMessage})
}

// @Summary      Сброс пароля
// @Description  Меняет пароль по одноразовому токену из письма
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        reset  body      models.ResetPasswordRequest  true  "Токен и новый пароль"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /reset-password [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.resetService.ResetPassword(req.Token, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidOrExpiredToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		log.Printf("[password-reset] reset failed: err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}
