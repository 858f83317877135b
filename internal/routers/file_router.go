package routers

import (
	"Drivebox/cmd"

	"github.com/gofiber/fiber/v2"
)

func SetupFileRouter(router fiber.Router, server *cmd.Server) {
	fileHandler := server.FileHandler
	router.Post("/files/*", fileHandler.UploadFile)
}
