package checkin

import (
	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/auth"
	"roomdesk/internal/common/locale"
	"roomdesk/internal/common/response"
	"roomdesk/internal/notify"
	apperrors "roomdesk/pkg/errors"
)

type Handler struct {
	service  *Service
	auth     *auth.Service
	notifier *notify.Notifier
}

func NewHandler(service *Service, authService *auth.Service, notifier *notify.Notifier) *Handler {
	return &Handler{service: service, auth: authService, notifier: notifier}
}

type CheckInRequest struct {
	Payload string `json:"payload"`
}

// CheckIn accepts the scanned QR payload in the body or as ?code=.
func (h *Handler) CheckIn(c *fiber.Ctx) error {
	var req CheckInRequest
	_ = c.BodyParser(&req)
	if req.Payload == "" {
		req.Payload = c.Query("code")
	}

	lang := locale.From(c)
	meeting, err := h.service.CheckIn(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), req.Payload)
	if apperrors.CodeOf(err) == apperrors.CodeValidation {
		return response.Failure(c, err, h.notifier.Error(lang, "checkin.invalid_code"))
	}
	if err != nil {
		return response.Failure(c, err, h.notifier.FromError(lang, err))
	}

	return response.SuccessWithToast(c, fiber.StatusOK, meeting, h.notifier.Success(lang, "checkin.success", meeting.Title))
}

// QR serves the meeting's check-in code as a PNG.
func (h *Handler) QR(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid meeting ID")
	}

	png, err := h.service.MeetingQR(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id))
	if err != nil {
		return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(png)
}
