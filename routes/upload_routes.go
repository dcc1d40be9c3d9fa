package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quizsecure/quizsecure/handlers"
	"github.com/quizsecure/quizsecure/middleware"
)

func UploadRoutes(app *fiber.App) {
	api := app.Group("/api")

	uploads := api.Group("/uploads", middleware.Protected(), middleware.TeacherRequired())
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
