package main

import "coldmailer/internal/app"

// @title           Cold Mailer API
// @version         1.0
// @description     Бэкенд аккаунтов: регистрация, вход, сброс пароля.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
