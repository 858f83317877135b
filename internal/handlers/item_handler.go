package handlers

import (
	"Drivebox/internal/errs"
	"Drivebox/internal/mapper"
	"Drivebox/internal/services"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

type ItemHandler struct {
	service      services.ItemService
	trashService services.TrashService
	moverService services.MoverService
	logService   services.LogService
}

func NewItemHandler(
	service services.ItemService,
	trashService services.TrashService,
	moverService services.MoverService,
	logService services.LogService,
) *ItemHandler {
	return &ItemHandler{
		service:      service,
		trashService: trashService,
		moverService: moverService,
		logService:   logService,
	}
}

func (h *ItemHandler) ListItems(c *fiber.Ctx) error {
	query, err := services.ParseItemQuery(currentUser(c), c.Queries())
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	items, err := h.service.Search(c.UserContext(), query)
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(mapper.ToItemsGetDTOs(items))
}

func (h *ItemHandler) CountItems(c *fiber.Ctx) error {
	counts, err := h.service.Counts(c.UserContext(), currentUser(c))
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(counts)
}

func (h *ItemHandler) ListChildren(c *fiber.Ctx) error {
	parentID, err := parseOptionalID(c.Params("*"), "folder ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	items, err := h.service.ListChildren(c.UserContext(), parentID, currentUser(c))
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(mapper.ToItemsGetDTOs(items))
}

func (h *ItemHandler) GetItemByID(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	item, err := h.service.GetItem(c.UserContext(), id, currentUser(c))
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(mapper.ToItemGetDTO(item))
}

func (h *ItemHandler) GetPreview(c *fiber.Ctx) error {
	previewURL := c.Params("previewUrl")
	if previewURL == "" {
		return errorResponse(c, h.logService, errs.Validation("missing preview token"))
	}
	item, err := h.service.GetPreview(c.UserContext(), previewURL, currentUser(c))
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(mapper.ToItemGetDTO(item))
}

func (h *ItemHandler) CreateFolder(c *fiber.Ctx) error {
	parentID, err := parseOptionalID(c.Params("*"), "folder ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	var input services.CreateFolderInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	input.ParentID = parentID

	folder, err := h.service.CreateFolder(c.UserContext(), currentUser(c), input)
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToItemGetDTO(folder))
}

func (h *ItemHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	var input services.EditItemInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	item, err := h.service.EditItem(c.UserContext(), id, currentUser(c), input)
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(mapper.ToItemGetDTO(item))
}

func (h *ItemHandler) ToggleStar(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	item, err := h.service.ToggleStar(c.UserContext(), id, currentUser(c))
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(mapper.ToItemGetDTO(item))
}

func (h *ItemHandler) TrashItem(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	affected, err := h.trashService.Trash(c.UserContext(), id, currentUser(c))
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(fiber.Map{"message": "item moved to trash", "affected": affected})
}

func (h *ItemHandler) RestoreItem(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	affected, err := h.trashService.Restore(c.UserContext(), id, currentUser(c))
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(fiber.Map{"message": "item restored", "affected": affected})
}

func (h *ItemHandler) MoveItem(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	var input services.MoveItemInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	item, err := h.moverService.MoveItem(c.UserContext(), id, currentUser(c), input)
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.JSON(mapper.ToItemGetDTO(item))
}

func (h *ItemHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseID(c.Params("itemId"), "item ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	if err := h.trashService.Delete(c.UserContext(), id, currentUser(c)); err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
