package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coldmailer/internal/services"
)

// AuthMiddleware проверяет Authorization: Bearer <token> и кладёт email
// субъекта в контекст. Кодек токенов инжектируется, никаких глобальных
// ключей.
func AuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// пропускаем preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		email, err := auth.ParseToken(tokenStr)
		if err != nil {
			// различие expired/invalid — только для логов, клиенту один 401
			if errors.Is(err, services.ErrTokenExpired) {
				log.Printf("[auth][middleware] expired token path=%s", c.Request.URL.Path)
			} else {
				log.Printf("[auth][middleware] invalid token path=%s: %v", c.Request.URL.Path, err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set("email", email)
		c.Next()
	}
}

// EmailFromCtx — email аутентифицированного субъекта, положенный middleware.
func EmailFromCtx(c *gin.Context) (string, bool) {
	v, ok := c.Get("email")
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok && email != ""
}
