package handlers

import (
	"Drivebox/internal/mapper"
	"Drivebox/internal/services"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

type ShareHandler struct {
	service    services.ShareService
	logService services.LogService
}

func NewShareHandler(service services.ShareService, logService services.LogService) *ShareHandler {
	return &ShareHandler{service: service, logService: logService}
}

func (h *ShareHandler) ToggleShare(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	var input services.ShareInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	shared, err := h.service.ToggleShare(c.UserContext(), id, currentUser(c), input)
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(fiber.Map{"shared": shared})
}

func (h *ShareHandler) RevokeAll(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	revoked, err := h.service.RevokeAll(c.UserContext(), id, currentUser(c))
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(fiber.Map{"revoked": revoked})
}

// ListShared lists items shared with the caller, or the private children of a
// folder when the wildcard names one.
func (h *ShareHandler) ListShared(c *fiber.Ctx) error {
	folderID, err := parseOptionalID(c.Params("*"), "folder ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	if folderID == nil {
		items, err := h.service.SharedWithMe(c.UserContext(), currentUser(c))
		if err != nil {
			return errorResponse(c, h.logService, err)
		}
		return c.JSON(mapper.ToItemsGetDTOs(items))
	}

	items, err := h.service.SharedUnderFolder(c.UserContext(), *folderID)
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(mapper.ToItemsGetDTOs(items))
}
