package meeting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ict = time.FixedZone("ICT", 7*3600)

func testRules() Rules {
	return Rules{OpenHour: 8, CloseHour: 18, Location: ict}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, ict)
}

func issueKey(t *testing.T, err error, field string) string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	issue, ok := verr.Fields[field]
	require.True(t, ok, "no issue for %s in %v", field, verr.Fields)
	return issue.Key
}

func TestValidateSlot(t *testing.T) {
	rules := testRules()
	now := at(16, 10, 0)

	tests := []struct {
		name       string
		start, end time.Time
		field, key string
	}{
		{name: "within hours", start: at(19, 9, 0), end: at(19, 10, 0)},
		{name: "ends at closing", start: at(19, 17, 0), end: at(19, 18, 0)},
		{name: "starts at opening", start: at(19, 8, 0), end: at(19, 8, 30)},
		{name: "ends after closing", start: at(19, 17, 30), end: at(19, 18, 30), field: "end_time", key: "booking.outside_hours"},
		{name: "starts before opening", start: at(19, 7, 30), end: at(19, 8, 30), field: "start_time", key: "booking.outside_hours"},
		{name: "end before start", start: at(19, 10, 0), end: at(19, 9, 0), field: "end_time", key: "booking.end_before_start"},
		{name: "zero length", start: at(19, 10, 0), end: at(19, 10, 0), field: "end_time", key: "booking.end_before_start"},
		{name: "spans days", start: at(19, 17, 0), end: at(20, 9, 0), field: "end_time", key: "booking.spans_days"},
		{name: "in the past", start: at(16, 9, 0), end: at(16, 9, 30), field: "start_time", key: "booking.past_slot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.ValidateSlot(tt.start, tt.end, now)
			if tt.key == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.key, issueKey(t, err, tt.field))
		})
	}
}

func TestValidateSlotUsesBusinessLocation(t *testing.T) {
	rules := testRules()
	// 01:00 UTC is 08:00 in ICT.
	start := time.Date(2026, time.October, 19, 1, 0, 0, 0, time.UTC)
	assert.NoError(t, rules.ValidateSlot(start, start.Add(time.Hour), at(16, 10, 0)))
}

func TestValidateRecurrence(t *testing.T) {
	rules := testRules()
	now := at(16, 10, 0)
	start := at(19, 9, 0)

	tests := []struct {
		name string
		rec  *RecurrenceForm
		key  string
		at   string
	}{
		{name: "none", rec: nil},
		{name: "daily", rec: &RecurrenceForm{Frequency: "DAILY", Interval: 1, RepeatUntil: "2026-10-30"}},
		{name: "weekly with days", rec: &RecurrenceForm{Frequency: "WEEKLY", RepeatUntil: "2026-11-30", DaysOfWeek: []string{"MONDAY"}}},
		{name: "weekly without days", rec: &RecurrenceForm{Frequency: "WEEKLY", RepeatUntil: "2026-11-30"}, key: "booking.weekdays_required", at: "recurrence.days_of_week"},
		{name: "missing until", rec: &RecurrenceForm{Frequency: "DAILY"}, key: "booking.repeat_until_required", at: "recurrence.repeat_until"},
		{name: "until today", rec: &RecurrenceForm{Frequency: "DAILY", RepeatUntil: "2026-10-16"}, key: "booking.repeat_until_past", at: "recurrence.repeat_until"},
		{name: "until before start", rec: &RecurrenceForm{Frequency: "DAILY", RepeatUntil: "2026-10-18"}, key: "booking.repeat_until_before_start", at: "recurrence.repeat_until"},
		{name: "negative interval", rec: &RecurrenceForm{Frequency: "DAILY", Interval: -1, RepeatUntil: "2026-10-30"}, key: "booking.interval_invalid", at: "recurrence.interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.ValidateRecurrence(tt.rec, start, now)
			if tt.key == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.key, issueKey(t, err, tt.at))
		})
	}
}

func TestValidateFormCollectsSlotAndRecurrence(t *testing.T) {
	form := &MeetingForm{
		Title:      "Sprint review",
		StartTime:  at(19, 17, 0),
		EndTime:    at(19, 19, 0),
		RoomID:     1,
		Recurrence: &RecurrenceForm{Frequency: "WEEKLY", RepeatUntil: "2026-11-30"},
	}

	err := testRules().ValidateForm(form, at(16, 10, 0))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "booking.outside_hours", verr.Fields["end_time"].Key)
	assert.Equal(t, []any{8, 18}, verr.Fields["end_time"].Args)
	assert.Equal(t, "booking.weekdays_required", verr.Fields["recurrence.days_of_week"].Key)
	assert.Contains(t, err.Error(), "end_time=booking.outside_hours")
}

func TestPreviewOccurrences(t *testing.T) {
	rules := testRules()
	start, end := at(19, 9, 0), at(19, 10, 30)

	starts := func(p *PreviewResponse) []string {
		out := make([]string, len(p.Occurrences))
		for i, o := range p.Occurrences {
			out[i] = o.StartTime.In(ict).Format("2006-01-02 15:04")
		}
		return out
	}

	t.Run("single", func(t *testing.T) {
		p, err := rules.PreviewOccurrences(start, end, nil, 0)
		require.NoError(t, err)
		assert.Len(t, p.Occurrences, 1)
	})

	t.Run("weekly on two days", func(t *testing.T) {
		rec := &RecurrenceForm{Frequency: "WEEKLY", Interval: 1, RepeatUntil: "2026-10-30", DaysOfWeek: []string{"MONDAY", "WEDNESDAY"}}
		p, err := rules.PreviewOccurrences(start, end, rec, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-10-19 09:00", "2026-10-21 09:00", "2026-10-26 09:00", "2026-10-28 09:00"}, starts(p))
		assert.False(t, p.Truncated)
		assert.Equal(t, 90*time.Minute, p.Occurrences[2].EndTime.Sub(p.Occurrences[2].StartTime))
	})

	t.Run("every other day until inclusive", func(t *testing.T) {
		rec := &RecurrenceForm{Frequency: "DAILY", Interval: 2, RepeatUntil: "2026-10-25"}
		p, err := rules.PreviewOccurrences(start, end, rec, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-10-19 09:00", "2026-10-21 09:00", "2026-10-23 09:00", "2026-10-25 09:00"}, starts(p))
	})

	t.Run("monthly", func(t *testing.T) {
		rec := &RecurrenceForm{Frequency: "MONTHLY", RepeatUntil: "2027-01-19"}
		p, err := rules.PreviewOccurrences(start, end, rec, 0)
		require.NoError(t, err)
		assert.Len(t, p.Occurrences, 4)
	})

	t.Run("truncated", func(t *testing.T) {
		rec := &RecurrenceForm{Frequency: "DAILY", RepeatUntil: "2027-12-31"}
		p, err := rules.PreviewOccurrences(start, end, rec, 3)
		require.NoError(t, err)
		assert.Len(t, p.Occurrences, 3)
		assert.True(t, p.Truncated)
	})

	t.Run("unknown weekday", func(t *testing.T) {
		rec := &RecurrenceForm{Frequency: "WEEKLY", RepeatUntil: "2026-10-30", DaysOfWeek: []string{"FUNDAY"}}
		_, err := rules.PreviewOccurrences(start, end, rec, 0)
		assert.Error(t, err)
	})
}
