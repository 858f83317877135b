package handlers

import (
	"Drivebox/internal/mapper"
	"Drivebox/internal/services"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type FileHandler struct {
	service    services.FileService
	logService services.LogService
}

func NewFileHandler(service services.FileService, logService services.LogService) *FileHandler {
	return &FileHandler{service: service, logService: logService}
}

// UploadFile expects a multipart form with a "file" part. The wildcard is the
// optional parent folder id.
func (h *FileHandler) UploadFile(c *fiber.Ctx) error {
	parentID, err := parseOptionalID(c.Params("*"), "folder ID")
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file"})
	}

	input := services.UploadInput{
		Name:        fileHeader.Filename,
		ParentID:    parentID,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}
	if name := c.FormValue("name"); name != "" {
		input.Name = name
	}
	if raw := c.FormValue("is_private"); raw != "" {
		isPrivate, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "is_private must be a boolean"})
		}
		input.IsPrivate = &isPrivate
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	defer file.Close()
	input.Body = file

	item, err := h.service.Upload(c.UserContext(), currentUser(c), input)
	if err != nil {
		return errorResponse(c, h.logService, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToItemGetDTO(item))
}
