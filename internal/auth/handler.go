package auth

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/common/locale"
	"roomdesk/internal/common/response"
	"roomdesk/internal/notify"
)

type Handler struct {
	service    *Service
	validate   *validator.Validate
	notifier   *notify.Notifier
	cookieName string
	secure     bool
}

func NewHandler(service *Service, notifier *notify.Notifier, cookieName string, secure bool) *Handler {
	return &Handler{
		service:    service,
		validate:   validator.New(),
		notifier:   notifier,
		cookieName: cookieName,
		secure:     secure,
	}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.service.Register(c.UserContext(), req)
	if err != nil {
		return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
	}

	return response.SuccessWithToast(c, fiber.StatusCreated, user, h.notifier.Success(locale.From(c), "auth.registered"))
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	session, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
	}

	h.setCookie(c, session.ID, session.ExpiresAt)

	return response.Success(c, sessionView(session))
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), SessionID(c, h.cookieName)); err != nil {
		return response.InternalError(c, err)
	}

	c.ClearCookie(h.cookieName)

	return response.Success(c, fiber.Map{
		"message": "Logged out successfully",
	})
}

// Session returns the decoded auth context of the caller.
func (h *Handler) Session(c *fiber.Ctx) error {
	return response.Success(c, sessionView(SessionFrom(c)))
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.service.ChangePassword(c.UserContext(), SessionFrom(c), req); err != nil {
		return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
	}

	return response.SuccessWithToast(c, fiber.StatusOK, nil, h.notifier.Success(locale.From(c), "auth.password_changed"))
}

func (h *Handler) setCookie(c *fiber.Ctx, id string, expires time.Time) {
	cookie := &fiber.Cookie{
		Name:     h.cookieName,
		Value:    id,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	}
	if !expires.IsZero() {
		cookie.Expires = expires
	}
	c.Cookie(cookie)
}

func sessionView(s *Session) fiber.Map {
	return fiber.Map{
		"session_id": s.ID,
		"username":   s.Username,
		"full_name":  s.FullName,
		"roles":      s.Roles,
		"is_admin":   s.IsAdmin(),
		"expires_at": s.ExpiresAt,
	}
}

// Request DTOs
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,nefield=OldPassword"`
}
