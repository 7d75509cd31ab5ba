package settings

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/auth"
	"roomdesk/internal/common/locale"
	"roomdesk/internal/common/response"
	"roomdesk/internal/notify"
)

type Handler struct {
	service  Service
	notifier *notify.Notifier
	validate *validator.Validate
}

func NewHandler(service Service, notifier *notify.Notifier) *Handler {
	return &Handler{
		service:  service,
		notifier: notifier,
		validate: validator.New(),
	}
}

// GetSettings returns the caller's portal preferences
// @Summary Get preferences
// @Tags settings
// @Produce json
// @Success 200 {object} Preferences
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/settings [get]
func (h *Handler) GetSettings(c *fiber.Ctx) error {
	prefs, err := h.service.GetPreferences(c.UserContext(), auth.SessionFrom(c).Username)
	if err != nil {
		return response.InternalError(c, err)
	}

	return response.Success(c, prefs)
}

// UpdateSettings changes the fields present in the body
// @Summary Update preferences
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body UpdatePreferencesDTO true "Preferences to update"
// @Success 200 {object} Preferences
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/settings [put]
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var dto UpdatePreferencesDTO
	if err := c.BodyParser(&dto); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validate.Struct(&dto); err != nil {
		return response.ValidationError(c, err)
	}

	prefs, err := h.service.UpdatePreferences(c.UserContext(), auth.SessionFrom(c).Username, &dto)
	if err != nil {
		return response.InternalError(c, err)
	}

	// Answer in the language just chosen.
	return response.SuccessWithToast(c, fiber.StatusOK, prefs, h.notifier.Success(prefs.Language, "common.saved"))
}

// DeleteSettings restores the defaults
// @Summary Reset preferences
// @Tags settings
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/settings [delete]
func (h *Handler) DeleteSettings(c *fiber.Ctx) error {
	if err := h.service.ResetPreferences(c.UserContext(), auth.SessionFrom(c).Username); err != nil {
		return response.InternalError(c, err)
	}

	return response.SuccessWithToast(c, fiber.StatusOK, nil, h.notifier.Success(locale.From(c), "common.saved"))
}
