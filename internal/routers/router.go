package routers

import (
	"Drivebox/cmd"
	"Drivebox/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, server *cmd.Server) {
	api := app.Group("/api", handlers.Identity())
	items := api.Group("/items")
	SetupItemRouter(items, server)
	SetupFileRouter(items, server)
	SetupJanitorRouter(app, server)
}
