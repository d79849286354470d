package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "coldmailer/docs"
	"coldmailer/internal/config"
	"coldmailer/internal/db"
	"coldmailer/internal/handlers"
	"coldmailer/internal/middleware"
	"coldmailer/internal/repositories"
	"coldmailer/internal/routes"
	"coldmailer/internal/services"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Ошибка чтения конфигурации: ", err)
	}
	if err := cfg.Validate(); err != nil {
		// без секрета/БД не поднимаемся
		log.Fatal("Ошибка конфигурации: ", err)
	}

	// === DB ===
	database, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()
	if err := database.Ping(); err != nil {
		log.Fatal("БД недоступна: ", err)
	}
	if err := db.RunMigrations(database); err != nil {
		log.Fatal("Ошибка миграций: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(database)
	resetRepo := repositories.NewPasswordResetRepository(database)

	// === Services ===
	authService, err := services.NewAuthService(cfg.JWT.Secret)
	if err != nil {
		log.Fatal("Ошибка инициализации auth: ", err)
	}
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.ResetBaseURL,
	)
	// Telegram-алерты опциональны, может быть nil
	alertService := services.NewTelegramAlertService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	userService := services.NewUserService(userRepo, authService)
	resetService := services.NewPasswordResetService(userRepo, resetRepo, emailService, alertService, authService)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService)
	resetHandler := handlers.NewPasswordResetHandler(resetService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, database, authService, authHandler, resetHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}
