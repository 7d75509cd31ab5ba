package user

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/auth"
	"roomdesk/internal/common/locale"
	"roomdesk/internal/common/response"
	"roomdesk/internal/common/utils"
	"roomdesk/internal/notify"
)

type Handler struct {
	service  *Service
	auth     *auth.Service
	notifier *notify.Notifier
	validate *validator.Validate
}

func NewHandler(service *Service, authService *auth.Service, notifier *notify.Notifier) *Handler {
	return &Handler{
		service:  service,
		auth:     authService,
		notifier: notifier,
		validate: validator.New(),
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
}

func (h *Handler) GetMe(c *fiber.Ctx) error {
	user, err := h.service.Profile(c.UserContext(), h.auth.Client(auth.SessionFrom(c)))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, user)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.service.UpdateProfile(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.SuccessWithToast(c, fiber.StatusOK, user, h.notifier.Success(locale.From(c), "common.saved"))
}

func (h *Handler) SearchUsers(c *fiber.Ctx) error {
	session := auth.SessionFrom(c)
	users, err := h.service.SearchUsers(c.UserContext(), h.auth.Client(session), c.Query("q"), session.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, users)
}

func (h *Handler) AdminList(c *fiber.Ctx) error {
	page, err := h.service.AdminUsers(c.UserContext(), h.auth.Client(auth.SessionFrom(c)),
		c.QueryInt("page", 1), c.QueryInt("size", utils.DefaultPageSize))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, page)
}

func (h *Handler) AdminUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req AdminUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	session := auth.SessionFrom(c)
	user, err := h.service.AdminUpdate(c.UserContext(), h.auth.Client(session), session.UserID, int64(id), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return response.SuccessWithToast(c, fiber.StatusOK, user, h.notifier.Success(locale.From(c), "common.saved"))
}
