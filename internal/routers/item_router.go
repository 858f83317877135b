package routers

import (
	"Drivebox/cmd"

	"github.com/gofiber/fiber/v2"
)

// SetupItemRouter registers the static item routes ahead of /:itemId.
func SetupItemRouter(router fiber.Router, server *cmd.Server) {
	itemHandler := server.ItemHandler
	shareHandler := server.ShareHandler
	router.Get("/", itemHandler.ListItems)
	router.Get("/count", itemHandler.CountItems)
	router.Get("/files-folders/*", itemHandler.ListChildren)
	router.Get("/shared/*", shareHandler.ListShared)
	router.Get("/preview/:previewUrl", itemHandler.GetPreview)
	router.Post("/folders/*", itemHandler.CreateFolder)
	router.Get("/:itemId", itemHandler.GetItemByID)
	router.Put("/:itemId", itemHandler.UpdateItem)
	router.Put("/:itemId/starred", itemHandler.ToggleStar)
	router.Put("/:itemId/share", shareHandler.ToggleShare)
	router.Delete("/:itemId/share", shareHandler.RevokeAll)
	router.Put("/:itemId/trash", itemHandler.TrashItem)
	router.Put("/:itemId/restore", itemHandler.RestoreItem)
	router.Put("/:itemId/move", itemHandler.MoveItem)
	router.Delete("/:itemId", itemHandler.DeleteItem)
}
