package meeting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

type fakeBackend struct {
	room      client.Room
	devices   []client.Device
	available []client.Device
	created   []client.MeetingRequest
	result    client.Meeting
	cancelled map[int64]string
	responded map[int64]client.ParticipantStatus
}

func (f *fakeBackend) CreateMeeting(_ context.Context, req client.MeetingRequest) (*client.Meeting, error) {
	f.created = append(f.created, req)
	m := f.result
	return &m, nil
}

func (f *fakeBackend) MyMeetings(context.Context, time.Time, time.Time) ([]client.Meeting, error) {
	return []client.Meeting{f.result}, nil
}

func (f *fakeBackend) GetMeeting(_ context.Context, id int64) (*client.Meeting, error) {
	m := f.result
	m.ID = id
	return &m, nil
}

func (f *fakeBackend) UpdateMeeting(_ context.Context, id int64, _ client.MeetingRequest) (*client.Meeting, error) {
	m := f.result
	m.ID = id
	return &m, nil
}

func (f *fakeBackend) CancelMeeting(_ context.Context, id int64, reason string) error {
	if f.cancelled == nil {
		f.cancelled = map[int64]string{}
	}
	f.cancelled[id] = reason
	return nil
}

func (f *fakeBackend) UpdateSeries(context.Context, string, client.MeetingRequest) ([]client.Meeting, error) {
	return []client.Meeting{f.result, f.result}, nil
}

func (f *fakeBackend) CancelSeries(context.Context, string, string) error {
	return nil
}

func (f *fakeBackend) RespondInvitation(_ context.Context, id int64, status client.ParticipantStatus) error {
	if f.responded == nil {
		f.responded = map[int64]client.ParticipantStatus{}
	}
	f.responded[id] = status
	return nil
}

func (f *fakeBackend) GetRoom(_ context.Context, id int64) (*client.Room, error) {
	r := f.room
	r.ID = id
	return &r, nil
}

func (f *fakeBackend) ListDevices(context.Context) ([]client.Device, error) {
	return f.devices, nil
}

func (f *fakeBackend) AvailableDevices(context.Context, time.Time, time.Time) ([]client.Device, error) {
	return f.available, nil
}

type recordingInviter struct {
	sent []int64
}

func (r *recordingInviter) SendInvitation(_ context.Context, m *client.Meeting) error {
	r.sent = append(r.sent, m.ID)
	return nil
}

func newTestService(inviter Inviter) *Service {
	s := NewService(testRules(), inviter, logger.Nop())
	s.now = func() time.Time { return at(16, 10, 0) }
	return s
}

func validForm() *MeetingForm {
	return &MeetingForm{
		Title:     "Weekly sync",
		StartTime: at(19, 9, 0),
		EndTime:   at(19, 10, 0),
		RoomID:    3,
	}
}

func TestCreateMeeting(t *testing.T) {
	api := &fakeBackend{
		room:   client.Room{Status: client.StatusAvailable},
		result: client.Meeting{ID: 42, Status: client.MeetingConfirmed, GuestEmails: []string{"guest@example.com"}},
	}
	inviter := &recordingInviter{}
	s := newTestService(inviter)

	form := validForm()
	form.Recurrence = &RecurrenceForm{Frequency: "WEEKLY", RepeatUntil: "2026-11-30", DaysOfWeek: []string{"MONDAY"}}

	meeting, err := s.Create(context.Background(), api, form)
	require.NoError(t, err)
	assert.Equal(t, int64(42), meeting.ID)
	assert.Equal(t, []int64{42}, inviter.sent)

	require.Len(t, api.created, 1)
	req := api.created[0]
	assert.Equal(t, time.UTC, req.StartTime.Location())
	require.NotNil(t, req.RecurrenceRule)
	assert.Equal(t, 1, req.RecurrenceRule.Interval)
	assert.Equal(t, client.FrequencyWeekly, req.RecurrenceRule.Frequency)
}

func TestCreateMeetingRejectsBeforeCallingBackend(t *testing.T) {
	t.Run("outside hours", func(t *testing.T) {
		api := &fakeBackend{room: client.Room{Status: client.StatusAvailable}}
		form := validForm()
		form.EndTime = at(19, 18, 30)

		_, err := newTestService(nil).Create(context.Background(), api, form)
		assert.Equal(t, "booking.outside_hours", issueKey(t, err, "end_time"))
		assert.Empty(t, api.created)
	})

	t.Run("room under maintenance", func(t *testing.T) {
		api := &fakeBackend{room: client.Room{Status: client.StatusUnderMaintenance}}

		_, err := newTestService(nil).Create(context.Background(), api, validForm())
		assert.Equal(t, "booking.room_maintenance", issueKey(t, err, "room_id"))
		assert.Empty(t, api.created)
	})

	t.Run("device taken", func(t *testing.T) {
		api := &fakeBackend{
			room: client.Room{Status: client.StatusAvailable},
			devices: []client.Device{
				{ID: 1, Status: client.StatusAvailable},
				{ID: 2, Status: client.StatusAvailable},
			},
			available: []client.Device{{ID: 1}},
		}
		form := validForm()
		form.DeviceIDs = []int64{1, 2}

		_, err := newTestService(nil).Create(context.Background(), api, form)
		assert.Equal(t, "booking.device_conflict", issueKey(t, err, "device_ids"))
		assert.Empty(t, api.created)
	})

	t.Run("no device reported free", func(t *testing.T) {
		api := &fakeBackend{
			room:    client.Room{Status: client.StatusAvailable},
			devices: []client.Device{{ID: 7, Status: client.StatusAvailable}},
		}
		form := validForm()
		form.DeviceIDs = []int64{7}

		_, err := newTestService(nil).Create(context.Background(), api, form)
		assert.Equal(t, "booking.device_conflict", issueKey(t, err, "device_ids"))
		assert.Empty(t, api.created)
	})
}

func TestCreateMeetingPendingApproval(t *testing.T) {
	api := &fakeBackend{
		room:   client.Room{Status: client.StatusAvailable, RequiresApproval: true},
		result: client.Meeting{ID: 7, Status: client.MeetingPendingApproval},
	}
	inviter := &recordingInviter{}

	meeting, err := newTestService(inviter).Create(context.Background(), api, validForm())
	require.NoError(t, err)
	assert.Equal(t, client.MeetingPendingApproval, meeting.Status)
	assert.Empty(t, inviter.sent)
}

func TestRespond(t *testing.T) {
	api := &fakeBackend{}
	s := newTestService(nil)

	require.NoError(t, s.Respond(context.Background(), api, 5, client.ParticipantDeclined))
	assert.Equal(t, client.ParticipantDeclined, api.responded[5])

	err := s.Respond(context.Background(), api, 5, client.ParticipantPending)
	assert.Error(t, err)
}

func TestCancelAndSeries(t *testing.T) {
	api := &fakeBackend{}
	s := newTestService(nil)

	require.NoError(t, s.Cancel(context.Background(), api, 9, "room changed"))
	assert.Equal(t, "room changed", api.cancelled[9])

	assert.Error(t, s.CancelSeries(context.Background(), api, "", ""))

	_, err := s.UpdateSeries(context.Background(), api, "", validForm())
	assert.Error(t, err)

	meetings, err := s.UpdateSeries(context.Background(), api, "series-1", validForm())
	require.NoError(t, err)
	assert.Len(t, meetings, 2)
}

func TestMyMeetingsRejectsInvertedRange(t *testing.T) {
	_, err := newTestService(nil).MyMeetings(context.Background(), &fakeBackend{}, at(20, 0, 0), at(19, 0, 0))
	assert.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}
