package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

func TestRoomRows(t *testing.T) {
	rows := RoomRows([]client.RoomUsage{
		{RoomID: 1, RoomName: "A", TotalHours: 10},
		{RoomID: 2, RoomName: "B", TotalHours: 30},
		{RoomID: 3, RoomName: "C", TotalHours: 0},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, int64(2), rows[0].RoomID)
	assert.Equal(t, 0.75, rows[0].Share)
	assert.Equal(t, 0.25, rows[1].Share)
	assert.Equal(t, 0.0, rows[2].Share)
}

func TestDeviceRowsEmpty(t *testing.T) {
	assert.Empty(t, DeviceRows(nil))
}

func TestCancellationSummary(t *testing.T) {
	c := CancellationSummary(client.CancellationStats{TotalMeetings: 3, CancelledMeetings: 1})
	assert.Equal(t, 0.3333, c.Rate)

	assert.Zero(t, CancellationSummary(client.CancellationStats{}).Rate)
}

func TestVisitorSummary(t *testing.T) {
	v := VisitorSummary([]client.VisitorStat{
		{Date: "2026-10-12", Count: 4},
		{Date: "2026-10-13", Count: 9},
		{Date: "2026-10-14", Count: 2},
	})
	assert.Equal(t, 15, v.Total)
	require.NotNil(t, v.Peak)
	assert.Equal(t, "2026-10-13", v.Peak.Date)

	empty := VisitorSummary(nil)
	assert.NotNil(t, empty.Days)
	assert.Nil(t, empty.Peak)
}

func TestResolve(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	s := NewService(logger.Nop())
	s.now = func() time.Time { return now }

	r, err := s.Resolve(time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, now, r.To)
	assert.Equal(t, now.Add(-DefaultRange), r.From)

	_, err = s.Resolve(now, now.Add(-time.Hour))
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

type fakeBackend struct {
	fail error
}

func (f fakeBackend) RoomUsage(context.Context, time.Time, time.Time) ([]client.RoomUsage, error) {
	return []client.RoomUsage{{RoomID: 1, TotalHours: 2}}, nil
}

func (f fakeBackend) DeviceUsage(context.Context, time.Time, time.Time) ([]client.DeviceUsage, error) {
	return []client.DeviceUsage{{DeviceID: 5, TotalHours: 1}}, nil
}

func (f fakeBackend) CancellationStats(context.Context, time.Time, time.Time) (*client.CancellationStats, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return &client.CancellationStats{TotalMeetings: 4, CancelledMeetings: 1}, nil
}

func (f fakeBackend) VisitorStats(context.Context, time.Time, time.Time) ([]client.VisitorStat, error) {
	return []client.VisitorStat{{Date: "2026-10-15", Count: 3}}, nil
}

func TestDashboard(t *testing.T) {
	s := NewService(logger.Nop())
	r := Range{From: time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)}

	d, err := s.Dashboard(context.Background(), fakeBackend{}, r)
	require.NoError(t, err)
	assert.Equal(t, 1.0, d.Rooms[0].Share)
	assert.Equal(t, 0.25, d.Cancellations.Rate)
	assert.Equal(t, 3, d.Visitors.Total)

	boom := errors.New("boom")
	_, err = s.Dashboard(context.Background(), fakeBackend{fail: boom}, r)
	assert.ErrorIs(t, err, boom)
}
