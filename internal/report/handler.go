package report

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/auth"
	"roomdesk/internal/common/locale"
	"roomdesk/internal/common/response"
	"roomdesk/internal/notify"
)

type Handler struct {
	service  *Service
	auth     *auth.Service
	notifier *notify.Notifier
	location *time.Location
}

func NewHandler(service *Service, authService *auth.Service, notifier *notify.Notifier, location *time.Location) *Handler {
	return &Handler{
		service:  service,
		auth:     authService,
		notifier: notifier,
		location: location,
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
}

// window reads the from/to query (yyyy-mm-dd, in business time).
func (h *Handler) window(c *fiber.Ctx) (Range, error) {
	var from, to time.Time
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.ParseInLocation("2006-01-02", v, h.location); err != nil {
			return Range{}, err
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.ParseInLocation("2006-01-02", v, h.location); err != nil {
			return Range{}, err
		}
	}
	return h.service.Resolve(from, to)
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	r, err := h.window(c)
	if err != nil {
		return response.BadRequest(c, "Invalid report range")
	}

	d, err := h.service.Dashboard(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), r)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, d)
}

func (h *Handler) Rooms(c *fiber.Ctx) error {
	r, err := h.window(c)
	if err != nil {
		return response.BadRequest(c, "Invalid report range")
	}

	rows, err := h.service.Rooms(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), r)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, rows)
}

func (h *Handler) Devices(c *fiber.Ctx) error {
	r, err := h.window(c)
	if err != nil {
		return response.BadRequest(c, "Invalid report range")
	}

	rows, err := h.service.Devices(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), r)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, rows)
}

func (h *Handler) Cancellations(c *fiber.Ctx) error {
	r, err := h.window(c)
	if err != nil {
		return response.BadRequest(c, "Invalid report range")
	}

	stats, err := h.service.Cancellations(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), r)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, stats)
}

func (h *Handler) Visitors(c *fiber.Ctx) error {
	r, err := h.window(c)
	if err != nil {
		return response.BadRequest(c, "Invalid report range")
	}

	v, err := h.service.Visitors(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), r)
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, v)
}
