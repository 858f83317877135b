package handlers

import (
	"Drivebox/internal/errs"
	"Drivebox/internal/services"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// errorResponse maps error kinds onto status codes. Unclassified errors are
// logged and reported without detail.
func errorResponse(c *fiber.Ctx, logService services.LogService, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, errs.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, errs.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, errs.ErrConflict):
		status = fiber.StatusConflict
	}
	if status == fiber.StatusInternalServerError {
		logService.Log.WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"error":  err.Error(),
		}).Error("request failed")
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func parseID(raw string, what string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errs.Validation("invalid %s", what)
	}
	return uint(id), nil
}

// parseOptionalID reads a folder id from a wildcard segment; empty means the root.
func parseOptionalID(raw string, what string) (*uint, error) {
	raw = strings.Trim(raw, "/")
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(raw, what)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
