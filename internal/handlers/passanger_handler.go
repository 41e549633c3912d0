package handlers

import (
	"fmt"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/services"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PassangerHandler struct {
	passangers *services.PassangerService
}

func NewPassangerHandler(passangers *services.PassangerService) *PassangerHandler {
	return &PassangerHandler{passangers: passangers}
}

func (h *PassangerHandler) Create(c *fiber.Ctx) error {
	var request services.CreatePassangerInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.passangers.Create(c.Context(), request)
	if err != nil {
		return fail(c, err)
	}

	response := fiber.Map{"message": "Passanger registered successfully", "passanger": result.Passanger}
	if result.ResolutionErr != nil {
		response["account_link"] = fiber.Map{"resolved": false, "reason": result.ResolutionErr.Error()}
	}
	return c.JSON(response)
}

func (h *PassangerHandler) List(c *fiber.Ctx) error {
	passangers, err := h.passangers.FindAll(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(passangers)
}

func (h *PassangerHandler) GetByEmail(c *fiber.Ctx) error {
	passanger, err := h.passangers.FindByEmail(c.Context(), c.Params("email"))
	if err != nil {
		return fail(c, err)
	}
	if passanger == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Passanger not found"})
	}
	return c.JSON(passanger)
}

func (h *PassangerHandler) UpdateByEmail(c *fiber.Ctx) error {
	var request services.UpdatePassangerInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	passanger, err := h.passangers.UpdateByEmail(c.Context(), c.Params("email"), request)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Passanger updated successfully", "passanger": passanger})
}

func (h *PassangerHandler) UploadProfileImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to retrieve image"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to open image"})
	}
	defer file.Close()

	objectName := fmt.Sprintf("passanger_%s_%s", uuid.NewString(), fileHeader.Filename)
	url, err := storage.UploadProfileImage(c.Context(), objectName, file, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	passanger, err := h.passangers.SetProfileImage(c.Context(), c.Params("email"), url)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile image updated", "passanger": passanger})
}
