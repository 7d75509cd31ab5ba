package notify

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/internal/i18n"
	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"code wins over text", &client.APIError{Status: 409, Code: "DEVICE_CONFLICT", Message: "Phòng đã bị đặt"}, "booking.device_conflict"},
		{"vietnamese room conflict", &client.APIError{Status: 400, Message: "Phòng họp đã bị đặt vào thời gian này"}, "booking.room_conflict"},
		{"vietnamese device conflict", &client.APIError{Status: 400, Message: "Thiết bị Máy chiếu đã bị đặt"}, "booking.device_conflict"},
		{"english maintenance", &client.APIError{Status: 400, Message: "Room is under maintenance"}, "booking.room_maintenance"},
		{"status 401", &client.APIError{Status: http.StatusUnauthorized, Message: "Full authentication is required"}, "auth.session_expired"},
		{"status 403", &client.APIError{Status: http.StatusForbidden, Message: "Access Denied"}, "auth.forbidden"},
		{"status 404", &client.APIError{Status: http.StatusNotFound, Message: "Not Found"}, "resource.not_found"},
		{"bare 409", &client.APIError{Status: http.StatusConflict, Message: "x"}, "booking.room_conflict"},
		{"status 500", &client.APIError{Status: 500, Message: "boom"}, "common.unexpected"},
		{"wrapped", fmt.Errorf("create: %w", &client.APIError{Status: 400, Message: "Bad credentials"}), "auth.invalid_credentials"},
		{"portal validation", apperrors.New(apperrors.CodeValidation, "bad"), "validation.failed"},
		{"portal forbidden", apperrors.New(apperrors.CodeForbidden, "no"), "auth.forbidden"},
		{"transport", errors.New("dial tcp: connection refused"), "common.network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFor(tt.err))
		})
	}
}

func newNotifier(t *testing.T) *Notifier {
	t.Helper()
	bundle, err := i18n.Load()
	require.NoError(t, err)
	return New(bundle, 8, 18)
}

func TestFromErrorLocalises(t *testing.T) {
	n := newNotifier(t)

	toast := n.FromError("vi", &client.APIError{Status: 409, Message: "room already booked"})
	assert.Equal(t, LevelError, toast.Level)
	assert.Equal(t, "Phòng đã bị đặt trong khoảng thời gian này", toast.Message)

	toast = n.FromError("en", &client.APIError{Status: 400, Code: "OUTSIDE_WORKING_HOURS"})
	assert.Equal(t, "Meetings must be between 08:00 and 18:00", toast.Message)
}

func TestSuccess(t *testing.T) {
	n := newNotifier(t)

	toast := n.Success("en", "checkin.success", "Daily standup")

	assert.Equal(t, LevelSuccess, toast.Level)
	assert.Equal(t, "Checked in to Daily standup", toast.Message)
}
