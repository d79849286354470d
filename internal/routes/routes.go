package routes

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"coldmailer/internal/handlers"
	"coldmailer/internal/middleware"
	"coldmailer/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	db *sql.DB,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	resetHandler *handlers.PasswordResetHandler,
) *gin.Engine {

	// ---- public
	r.POST("/signup", authHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.POST("/forgot-password", resetHandler.ForgotPassword)
	r.POST("/reset-password", resetHandler.ResetPassword)

	r.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ---- protected
	auth := r.Group("/", middleware.AuthMiddleware(authService))
	{
		auth.GET("/me", authHandler.Me)
	}

	return r
}
