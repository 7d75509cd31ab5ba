package device

import (
	"errors"
	"time"

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

// List returns every device; admin tables pass page and size.
func (h *Handler) List(c *fiber.Ctx) error {
	devices, err := h.service.List(c.UserContext(), h.auth.Client(auth.SessionFrom(c)))
	if err != nil {
		return h.fail(c, err)
	}

	if c.Query("page") != "" {
		return response.Success(c, utils.NewPage(devices, c.QueryInt("page", 1), c.QueryInt("size", utils.DefaultPageSize)))
	}
	return response.Success(c, devices)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid device ID")
	}

	device, err := h.service.Get(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, device)
}

// Available answers the booking form's device picker for a slot.
func (h *Handler) Available(c *fiber.Ctx) error {
	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		return response.BadRequest(c, "Invalid start_time")
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_time"))
	if err != nil {
		return response.BadRequest(c, "Invalid end_time")
	}

	session := auth.SessionFrom(c)
	devices, err := h.service.Available(c.UserContext(), h.auth.Client(session), session.ID, start, end)
	if errors.Is(err, ErrSuperseded) {
		return response.Success(c, fiber.Map{"superseded": true})
	}
	if err != nil {
		return h.fail(c, err)
	}

	return response.Success(c, fiber.Map{
		"superseded": false,
		"devices":    devices,
	})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var form DeviceForm
	if err := c.BodyParser(&form); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&form); err != nil {
		return response.ValidationError(c, err)
	}

	device, err := h.service.Create(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), &form)
	if err != nil {
		return h.fail(c, err)
	}

	return response.SuccessWithToast(c, fiber.StatusCreated, device, h.notifier.Success(locale.From(c), "common.saved"))
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid device ID")
	}

	var form DeviceForm
	if err := c.BodyParser(&form); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&form); err != nil {
		return response.ValidationError(c, err)
	}

	device, err := h.service.Update(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id), &form)
	if err != nil {
		return h.fail(c, err)
	}

	return response.SuccessWithToast(c, fiber.StatusOK, device, h.notifier.Success(locale.From(c), "common.saved"))
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid device ID")
	}

	if err := h.service.Delete(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id)); err != nil {
		return h.fail(c, err)
	}

	return response.SuccessWithToast(c, fiber.StatusOK, nil, h.notifier.Success(locale.From(c), "common.deleted"))
}
