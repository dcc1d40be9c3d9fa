package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/quizsecure/quizsecure/handlers"
)

func ProctorRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})

	app.Get("/ws/proctor/:submissionId", websocket.New(handlers.ServeProctorWs))
	app.Get("/ws/monitor/:submissionId", websocket.New(handlers.ServeMonitorWs))
}
