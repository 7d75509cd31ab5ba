package calendar

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/auth"
	"roomdesk/internal/common/locale"
	"roomdesk/internal/common/response"
	"roomdesk/internal/notify"
	"roomdesk/pkg/logger"
)

type Handler struct {
	auth     *auth.Service
	notifier *notify.Notifier
	interval time.Duration
}

func NewHandler(authService *auth.Service, notifier *notify.Notifier, interval time.Duration) *Handler {
	return &Handler{auth: authService, notifier: notifier, interval: interval}
}

// Snapshot answers a single poll for clients that cannot hold a websocket.
// The fingerprint lets them skip re-rendering an unchanged calendar.
func (h *Handler) Snapshot(c *fiber.Ctx) error {
	poller := NewPoller(h.auth.Client(auth.SessionFrom(c)), h.interval, logger.Nop())
	snap, _, err := poller.Poll(c.UserContext())
	if err != nil {
		return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
	}

	if c.Get(fiber.HeaderIfNoneMatch) == snap.Fingerprint {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set(fiber.HeaderETag, snap.Fingerprint)
	return response.Success(c, fiber.Map{
		"snapshot":         snap,
		"poll_interval_ms": h.interval.Milliseconds(),
	})
}

// ExportICS downloads the caller's meetings as an .ics file.
func (h *Handler) ExportICS(c *fiber.Ctx) error {
	meetings, err := h.auth.Client(auth.SessionFrom(c)).MyMeetings(c.UserContext(), time.Time{}, time.Time{})
	if err != nil {
		return response.Failure(c, err, h.notifier.FromError(locale.From(c), err))
	}

	var buf bytes.Buffer
	if err := ExportICS(&buf, meetings, time.Now()); err != nil {
		return response.InternalError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="meetings.ics"`)
	return c.Send(buf.Bytes())
}
