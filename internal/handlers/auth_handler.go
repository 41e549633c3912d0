package handlers

import (
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/services"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/session"
	"github.com/Erick-MC-Cedeno/saferide-data-cloud/internal/twofactor"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	users     *services.UserService
	sessions  *session.Store
	twoFactor *twofactor.Service
}

func NewAuthHandler(users *services.UserService, sessions *session.Store, twoFactor *twofactor.Service) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, twoFactor: twoFactor}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var request services.RegisterInput
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.Register(c.Context(), request)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User registered successfully", "user": user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, user, err := h.users.Login(c.Context(), request.Email, request.Password)
	if err != nil {
		return fail(c, err)
	}

	sid, err := h.sessions.Save(c.Context(), user)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"token":      token,
		"role":       user.Role,
		"session_id": sid,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var request struct {
		SessionID string `json:"session_id"`
	}
	if err := c.BodyParser(&request); err != nil || request.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing session id"})
	}

	if err := h.sessions.Destroy(c.Context(), request.SessionID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user, err := h.sessions.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	return c.JSON(user)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var request struct {
		Email              string `json:"email"`
		CurrentPassword    string `json:"current_password"`
		NewPassword        string `json:"new_password"`
		ConfirmNewPassword string `json:"confirm_new_password"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.users.ChangePassword(c.Context(), request.Email, request.CurrentPassword,
		request.NewPassword, request.ConfirmNewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
		services.UpdateProfileInput
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.users.UpdateProfile(c.Context(), request.Email, request.UpdateProfileInput)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated successfully", "user": user})
}

func (h *AuthHandler) VerificationStatus(c *fiber.Ctx) error {
	verified, err := h.users.IsEmailVerified(c.Context(), c.Params("email"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"is_verified": verified})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.users.VerifyEmail(c.Context(), request.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

func (h *AuthHandler) SendVerificationEmail(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.users.SendVerificationEmail(c.Context(), request.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification email sent"})
}

func (h *AuthHandler) SendToken(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.users.SendVerificationToken(c.Context(), request.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Token sent"})
}

func (h *AuthHandler) ResendToken(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.users.ResendVerificationToken(c.Context(), request.Email); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Token resent"})
}

func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	var request struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ok, err := h.twoFactor.VerifyToken(c.Context(), request.Email, request.Code)
	if err != nil {
		return fail(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}
	return c.JSON(fiber.Map{"message": "Token verified"})
}
