package meeting

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
	"roomdesk/pkg/client"
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
	var verr *ValidationError
	if errors.As(err, &verr) {
		lang := locale.From(c)
		fields := make(map[string]string, len(verr.Fields))
		for field, issue := range verr.Fields {
			fields[field] = h.notifier.Text(lang, issue.Key, issue.Args...)
		}
		return response.FieldErrors(c, h.notifier.Text(lang, "validation.failed"), fields)
	}
	return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
}

func (h *Handler) parseForm(c *fiber.Ctx) (*MeetingForm, error) {
	var form MeetingForm
	if err := c.BodyParser(&form); err != nil {
		return nil, response.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(&form); err != nil {
		return nil, response.ValidationError(c, err)
	}
	return &form, nil
}

// CheckSlot validates a calendar selection before the booking modal opens.
func (h *Handler) CheckSlot(c *fiber.Ctx) error {
	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		return response.BadRequest(c, "Invalid start_time")
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_time"))
	if err != nil {
		return response.BadRequest(c, "Invalid end_time")
	}

	if err := h.service.Rules().ValidateSlot(start, end, time.Now()); err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, fiber.Map{"valid": true})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	form, err := h.parseForm(c)
	if form == nil {
		return err
	}

	meeting, err := h.service.Create(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), form)
	if err != nil {
		return h.fail(c, err)
	}

	lang := locale.From(c)
	toast := h.notifier.Success(lang, "booking.created")
	if meeting.Status == client.MeetingPendingApproval {
		toast = h.notifier.Info(lang, "booking.pending_approval")
	}
	return response.SuccessWithToast(c, fiber.StatusCreated, meeting, toast)
}

// Preview lists the occurrences of a recurring booking without creating it.
func (h *Handler) Preview(c *fiber.Ctx) error {
	form, err := h.parseForm(c)
	if form == nil {
		return err
	}

	preview, err := h.service.Preview(form, c.QueryInt("limit", MaxPreview))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, preview)
}

// MyMeetings lists the caller's meetings; from and to are optional RFC3339
// bounds. Passing page switches to a paged answer.
func (h *Handler) MyMeetings(c *fiber.Ctx) error {
	var from, to time.Time
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = time.Parse(time.RFC3339, v); err != nil {
			return response.BadRequest(c, "Invalid from")
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = time.Parse(time.RFC3339, v); err != nil {
			return response.BadRequest(c, "Invalid to")
		}
	}

	meetings, err := h.service.MyMeetings(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), from, to)
	if err != nil {
		return h.fail(c, err)
	}

	if c.Query("page") != "" {
		return response.Success(c, utils.NewPage(meetings, c.QueryInt("page", 1), c.QueryInt("size", utils.DefaultPageSize)))
	}
	return response.Success(c, meetings)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid meeting ID")
	}

	meeting, err := h.service.Get(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id))
	if err != nil {
		return h.fail(c, err)
	}
	return response.Success(c, meeting)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid meeting ID")
	}

	form, err := h.parseForm(c)
	if form == nil {
		return err
	}

	meeting, err := h.service.Update(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id), form)
	if err != nil {
		return h.fail(c, err)
	}
	return response.SuccessWithToast(c, fiber.StatusOK, meeting, h.notifier.Success(locale.From(c), "booking.updated"))
}

func (h *Handler) Cancel(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid meeting ID")
	}

	var req CancelRequest
	_ = c.BodyParser(&req)
	if req.Reason == "" {
		req.Reason = c.Query("reason")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.service.Cancel(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id), req.Reason); err != nil {
		return h.fail(c, err)
	}
	return response.SuccessWithToast(c, fiber.StatusOK, nil, h.notifier.Success(locale.From(c), "booking.cancelled"))
}

func (h *Handler) UpdateSeries(c *fiber.Ctx) error {
	form, err := h.parseForm(c)
	if form == nil {
		return err
	}

	meetings, err := h.service.UpdateSeries(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), c.Params("seriesId"), form)
	if err != nil {
		return h.fail(c, err)
	}
	return response.SuccessWithToast(c, fiber.StatusOK, meetings, h.notifier.Success(locale.From(c), "booking.series_updated"))
}

func (h *Handler) CancelSeries(c *fiber.Ctx) error {
	var req CancelRequest
	_ = c.BodyParser(&req)
	if req.Reason == "" {
		req.Reason = c.Query("reason")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.service.CancelSeries(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), c.Params("seriesId"), req.Reason); err != nil {
		return h.fail(c, err)
	}
	return response.SuccessWithToast(c, fiber.StatusOK, nil, h.notifier.Success(locale.From(c), "booking.series_cancelled"))
}

func (h *Handler) Respond(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid meeting ID")
	}

	var req RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	status := client.ParticipantStatus(req.Status)
	if err := h.service.Respond(c.UserContext(), h.auth.Client(auth.SessionFrom(c)), int64(id), status); err != nil {
		return h.fail(c, err)
	}
	return response.SuccessWithToast(c, fiber.StatusOK, nil, h.notifier.Success(locale.From(c), "booking.invitation_answered"))
}
