package meeting

import (
	"time"

	"roomdesk/pkg/client"
)

// MeetingForm is the booking modal's payload.
type MeetingForm struct {
	Title          string          `json:"title" validate:"required,max=255"`
	Description    string          `json:"description" validate:"max=2000"`
	StartTime      time.Time       `json:"start_time" validate:"required"`
	EndTime        time.Time       `json:"end_time" validate:"required"`
	RoomID         int64           `json:"room_id" validate:"required,gt=0"`
	DeviceIDs      []int64         `json:"device_ids" validate:"unique,dive,gt=0"`
	ParticipantIDs []int64         `json:"participant_ids" validate:"unique,dive,gt=0"`
	GuestEmails    []string        `json:"guest_emails" validate:"unique,dive,email"`
	Recurrence     *RecurrenceForm `json:"recurrence,omitempty"`
}

type RecurrenceForm struct {
	Frequency   string   `json:"frequency" validate:"required,oneof=DAILY WEEKLY MONTHLY"`
	Interval    int      `json:"interval"`
	RepeatUntil string   `json:"repeat_until"`
	DaysOfWeek  []string `json:"days_of_week" validate:"unique,dive,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type RespondRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED DECLINED"`
}

type PreviewResponse struct {
	Occurrences []Occurrence `json:"occurrences"`
	Truncated   bool         `json:"truncated"`
}

type Occurrence struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (f *MeetingForm) toRequest() client.MeetingRequest {
	req := client.MeetingRequest{
		Title:          f.Title,
		Description:    f.Description,
		StartTime:      f.StartTime.UTC(),
		EndTime:        f.EndTime.UTC(),
		RoomID:         f.RoomID,
		DeviceIDs:      f.DeviceIDs,
		ParticipantIDs: f.ParticipantIDs,
		GuestEmails:    f.GuestEmails,
	}
	if f.Recurrence != nil {
		interval := f.Recurrence.Interval
		if interval == 0 {
			interval = 1
		}
		req.RecurrenceRule = &client.RecurrenceRule{
			Frequency:   client.Frequency(f.Recurrence.Frequency),
			Interval:    interval,
			RepeatUntil: f.Recurrence.RepeatUntil,
			DaysOfWeek:  f.Recurrence.DaysOfWeek,
		}
	}
	return req
}
