package room

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

// List supports ?min_capacity=, ?available=true, ?vip=true|false and
// ?page=&size= for admin tables.
func (h *Handler) List(c *fiber.Ctx) error {
	filter := Filter{
		MinCapacity:   c.QueryInt("min_capacity", 0),
		AvailableOnly: c.QueryBool("available", false),
	}
	if v := c.Query("vip"); v != "" {
		vip := c.QueryBool("vip")
		filter.VIP = &vip
	}

	rooms, err := h.service.List(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), filter)
	if err != nil {
		return h.fail(c, err)
	}

	if c.Query("page") != "" {
		return response.Success(c, utils.NewPage(rooms, c.QueryInt("page", 1), c.QueryInt("size", utils.DefaultPageSize)))
	}
	return response.Success(c, rooms)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid room ID")
	}

	room, err := h.service.Get(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, room)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var form RoomForm
	if err := c.BodyParser(&form); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&form); err != nil {
		return response.ValidationError(c, err)
	}

	room, err := h.service.Create(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), &form)
	if err != nil {
		return h.fail(c, err)
	}

	return response.SuccessWithToast(c, fiber.StatusCreated, room, h.notifier.Success(locale.From(c), "common.saved"))
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid room ID")
	}

	var form RoomForm
	if err := c.BodyParser(&form); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&form); err != nil {
		return response.ValidationError(c, err)
	}

	room, err := h.service.Update(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id), &form)
	if err != nil {
		return h.fail(c, err)
	}

	return response.SuccessWithToast(c, fiber.StatusOK, room, h.notifier.Success(locale.From(c), "common.saved"))
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid room ID")
	}

	if err := h.service.Delete(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id)); err != nil {
		return h.fail(c, err)
	}

	return response.SuccessWithToast(c, fiber.StatusOK, nil, h.notifier.Success(locale.From(c), "common.deleted"))
}
