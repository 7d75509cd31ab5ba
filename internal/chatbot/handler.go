package chatbot

import (
	"github.com/go-playground/validator/v10"
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

type MessageRequest struct {
	Message string `json:"message" validate:"required,max=500"`
}

func (h *Handler) Ask(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	session := auth.SessionFrom(c)
	reply, err := h.service.Answer(c.UserContext(), h.auth.Client(session), locale.From(c), session.FullName, req.Message)
	if err != nil {
		return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
	}
	return response.Success(c, reply)
}
