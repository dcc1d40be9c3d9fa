package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quizsecure/quizsecure/handlers"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", handlers.Signup)
	auth.Post("/login", handlers.Login)
}
