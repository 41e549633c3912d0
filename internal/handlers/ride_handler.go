package handlers

import (
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/models"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RideHandler struct {
	rides *services.RideService
}

func NewRideHandler(rides *services.RideService) *RideHandler {
	return &RideHandler{rides: rides}
}

func (h *RideHandler) Create(c *fiber.Ctx) error {
	var request services.CreateRideInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ride, err := h.rides.Create(c.Context(), request)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ride created successfully", "ride": ride})
}

func (h *RideHandler) List(c *fiber.Ctx) error {
	rides, err := h.rides.FindAll(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rides)
}

func (h *RideHandler) GetByID(c *fiber.Ctx) error {
	ride, err := h.rides.FindByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if ride == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ride not found"})
	}
	return c.JSON(ride)
}

func (h *RideHandler) ListByPassenger(c *fiber.Ctx) error {
	rides, err := h.rides.FindByPassengerEmail(c.Context(), c.Params("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rides)
}

func (h *RideHandler) ListByDriver(c *fiber.Ctx) error {
	rides, err := h.rides.FindByDriverEmail(c.Context(), c.Params("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rides)
}

// Update is the administrative escape hatch: it patches ride fields
// without lifecycle validation.
func (h *RideHandler) Update(c *fiber.Ctx) error {
	var request services.UpdateRideInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ride, err := h.rides.UpdateByID(c.Context(), c.Params("id"), request)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ride updated successfully", "ride": ride})
}

func (h *RideHandler) Transition(c *fiber.Ctx) error {
	var request struct {
		Status models.RideStatus `json:"status"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ride, err := h.rides.Transition(c.Context(), c.Params("id"), request.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ride status updated", "ride": ride})
}

func (h *RideHandler) Cancel(c *fiber.Ctx) error {
	var request struct {
		Reason           string `json:"reason"`
		PassengerComment string `json:"passenger_comment"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ride, err := h.rides.CancelRide(c.Context(), c.Params("id"), request.Reason, request.PassengerComment)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Ride cancelled", "ride": ride})
}
