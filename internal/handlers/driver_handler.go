package handlers

import (
	"fmt"

	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/services"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DriverHandler struct {
	drivers *services.DriverService
}

func NewDriverHandler(drivers *services.DriverService) *DriverHandler {
	return &DriverHandler{drivers: drivers}
}

func (h *DriverHandler) Create(c *fiber.Ctx) error {
	var request services.CreateDriverInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.drivers.Create(c.Context(), request)
	if err != nil {
		return fail(c, err)
	}

	response := fiber.Map{"message": "Driver registered successfully", "driver": result.Driver}
	if result.ResolutionErr != nil {
		// Profile was created without an account link; tell the caller why.
		response["account_link"] = fiber.Map{"resolved": false, "reason": result.ResolutionErr.Error()}
	}
	return c.JSON(response)
}

func (h *DriverHandler) List(c *fiber.Ctx) error {
	drivers, err := h.drivers.FindAll(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(drivers)
}

func (h *DriverHandler) ListOnline(c *fiber.Ctx) error {
	drivers, err := h.drivers.FindAllOnline(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(drivers)
}

func (h *DriverHandler) GetByEmail(c *fiber.Ctx) error {
	driver, err := h.drivers.FindByEmail(c.Context(), c.Params("email"))
	if err != nil {
		return fail(c, err)
	}
	if driver == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Driver not found"})
	}
	return c.JSON(driver)
}

func (h *DriverHandler) UpdateByEmail(c *fiber.Ctx) error {
	var request services.UpdateDriverInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	driver, err := h.drivers.UpdateByEmail(c.Context(), c.Params("email"), request)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Driver updated successfully", "driver": driver})
}

func (h *DriverHandler) Verify(c *fiber.Ctx) error {
	driver, err := h.drivers.Verify(c.Context(), c.Params("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Driver verified successfully", "driver": driver})
}

func (h *DriverHandler) UploadProfileImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to retrieve image"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to open image"})
	}
	defer file.Close()

	objectName := fmt.Sprintf("driver_%s_%s", uuid.NewString(), fileHeader.Filename)
	url, err := storage.UploadProfileImage(c.Context(), objectName, file, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	driver, err := h.drivers.SetProfileImage(c.Context(), c.Params("email"), url)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile image updated", "driver": driver})
}
