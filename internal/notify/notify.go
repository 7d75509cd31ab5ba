// Package notify turns backend failures into short localised messages for
// the user.
package notify

import (
	"errors"
	"net/http"
	"strings"

	"roomdesk/internal/i18n"
	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Toast struct {
	Level   Level  `json:"level"`
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Backend error codes understood without looking at the message text.
var codeKeys = map[string]string{
	"ROOM_CONFLICT":         "booking.room_conflict",
	"DEVICE_CONFLICT":       "booking.device_conflict",
	"OUTSIDE_WORKING_HOURS": "booking.outside_hours",
	"ROOM_MAINTENANCE":      "booking.room_maintenance",
	"INVALID_CHECKIN_CODE":  "checkin.invalid_code",
	"CHECKIN_NOT_OPEN":      "checkin.too_early",
	"INVALID_CREDENTIALS":   "auth.invalid_credentials",
	"ACCOUNT_DISABLED":      "auth.account_disabled",
	"WRONG_PASSWORD":        "auth.wrong_password",
	"RESOURCE_IN_USE":       "resource.in_use",
	"DUPLICATE_NAME":        "resource.duplicate",
	"MEETING_NOT_FOUND":     "booking.not_found",
}

// Message fragments the backend is known to send, checked in order. Older
// backend builds answer with prose only.
var messageKeys = []struct {
	fragment string
	key      string
}{
	{"thiết bị", "booking.device_conflict"},
	{"device", "booking.device_conflict"},
	{"đã bị đặt", "booking.room_conflict"},
	{"already booked", "booking.room_conflict"},
	{"conflict", "booking.room_conflict"},
	{"trùng lịch", "booking.room_conflict"},
	{"bảo trì", "booking.room_maintenance"},
	{"maintenance", "booking.room_maintenance"},
	{"giờ làm việc", "booking.outside_hours"},
	{"working hours", "booking.outside_hours"},
	{"check-in", "checkin.invalid_code"},
	{"bad credentials", "auth.invalid_credentials"},
	{"sai mật khẩu", "auth.wrong_password"},
	{"incorrect", "auth.wrong_password"},
	{"disabled", "auth.account_disabled"},
	{"vô hiệu", "auth.account_disabled"},
	{"đang được sử dụng", "resource.in_use"},
	{"in use", "resource.in_use"},
	{"đã tồn tại", "resource.duplicate"},
	{"already exists", "resource.duplicate"},
}

type Notifier struct {
	bundle     *i18n.Bundle
	hoursStart int
	hoursEnd   int
}

func New(bundle *i18n.Bundle, hoursStart, hoursEnd int) *Notifier {
	return &Notifier{bundle: bundle, hoursStart: hoursStart, hoursEnd: hoursEnd}
}

// Success localises a confirmation message.
func (n *Notifier) Success(locale, key string, args ...any) Toast {
	return Toast{Level: LevelSuccess, Key: key, Message: n.bundle.T(locale, key, args...)}
}

// FromError picks the best message for err: the backend code first, then
// known message fragments, then the HTTP status.
func (n *Notifier) FromError(locale string, err error) Toast {
	key := KeyFor(err)
	return Toast{Level: LevelError, Key: key, Message: n.translate(locale, key)}
}

// Info localises an informational message.
func (n *Notifier) Info(locale, key string, args ...any) Toast {
	return Toast{Level: LevelInfo, Key: key, Message: n.bundle.T(locale, key, args...)}
}

// Error localises a failure the portal detected itself.
func (n *Notifier) Error(locale, key string, args ...any) Toast {
	return Toast{Level: LevelError, Key: key, Message: n.bundle.T(locale, key, args...)}
}

// Text localises key without wrapping it in a toast.
func (n *Notifier) Text(locale, key string, args ...any) string {
	return n.bundle.T(locale, key, args...)
}

func (n *Notifier) translate(locale, key string) string {
	if key == "booking.outside_hours" {
		return n.bundle.T(locale, key, n.hoursStart, n.hoursEnd)
	}
	return n.bundle.T(locale, key)
}

// KeyFor maps err to a translation key.
func KeyFor(err error) string {
	if err == nil {
		return "common.saved"
	}

	switch apperrors.CodeOf(err) {
	case apperrors.CodeValidation:
		return "validation.failed"
	case apperrors.CodeSessionExpiry, apperrors.CodeUnauthorized:
		return "auth.session_expired"
	case apperrors.CodeForbidden:
		return "auth.forbidden"
	}

	apiErr, ok := client.AsAPIError(err)
	if !ok {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return "common.unexpected"
		}
		return "common.network"
	}

	if key, ok := codeKeys[strings.ToUpper(apiErr.Code)]; ok {
		return key
	}

	msg := strings.ToLower(apiErr.Message)
	for _, m := range messageKeys {
		if strings.Contains(msg, m.fragment) {
			return m.key
		}
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized:
		return "auth.session_expired"
	case apiErr.Status == http.StatusForbidden:
		return "auth.forbidden"
	case apiErr.Status == http.StatusNotFound:
		return "resource.not_found"
	case apiErr.Status == http.StatusConflict:
		return "booking.room_conflict"
	case apiErr.Status == http.StatusBadRequest:
		return "validation.failed"
	default:
		return "common.unexpected"
	}
}
