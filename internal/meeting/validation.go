package meeting

import (
	"strings"
	"time"
)

// Issue is one rejected field, expressed as a translation key.
type Issue struct {
	Key  string
	Args []any
}

// ValidationError collects field issues for the booking form.
type ValidationError struct {
	Fields map[string]Issue
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(v.Fields))
	for field, issue := range v.Fields {
		keys = append(keys, field+"="+issue.Key)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

func (v *ValidationError) add(field, key string, args ...any) {
	if v.Fields == nil {
		v.Fields = make(map[string]Issue)
	}
	if _, exists := v.Fields[field]; !exists {
		v.Fields[field] = Issue{Key: key, Args: args}
	}
}

func (v *ValidationError) orNil() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

// Rules holds the business calendar the booking form enforces.
type Rules struct {
	OpenHour  int
	CloseHour int
	Location  *time.Location
}

const dateLayout = "2006-01-02"

func (r Rules) loc() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// ValidateSlot is the gate applied when a user selects or drags a calendar
// slot. A slot must end after it starts, stay within one day, lie inside
// business hours (closing time inclusive) and not start in the past.
func (r Rules) ValidateSlot(start, end, now time.Time) error {
	v := &ValidationError{}
	r.checkSlot(v, start, end, now)
	return v.orNil()
}

func (r Rules) checkSlot(v *ValidationError, start, end, now time.Time) {
	start = start.In(r.loc())
	end = end.In(r.loc())

	if !end.After(start) {
		v.add("end_time", "booking.end_before_start")
		return
	}

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		v.add("end_time", "booking.spans_days")
		return
	}

	open := time.Date(sy, sm, sd, r.OpenHour, 0, 0, 0, r.loc())
	closing := time.Date(sy, sm, sd, r.CloseHour, 0, 0, 0, r.loc())
	if start.Before(open) {
		v.add("start_time", "booking.outside_hours", r.OpenHour, r.CloseHour)
	}
	if end.After(closing) {
		v.add("end_time", "booking.outside_hours", r.OpenHour, r.CloseHour)
	}

	if start.Before(now) {
		v.add("start_time", "booking.past_slot")
	}
}

// ValidateRecurrence checks the repeat settings of a recurring booking whose
// first occurrence starts at start.
func (r Rules) ValidateRecurrence(rec *RecurrenceForm, start, now time.Time) error {
	v := &ValidationError{}
	r.checkRecurrence(v, rec, start, now)
	return v.orNil()
}

func (r Rules) checkRecurrence(v *ValidationError, rec *RecurrenceForm, start, now time.Time) {
	if rec == nil {
		return
	}

	if rec.Interval < 0 {
		v.add("recurrence.interval", "booking.interval_invalid")
	}

	if rec.Frequency == "WEEKLY" && len(rec.DaysOfWeek) == 0 {
		v.add("recurrence.days_of_week", "booking.weekdays_required")
	}

	if strings.TrimSpace(rec.RepeatUntil) == "" {
		v.add("recurrence.repeat_until", "booking.repeat_until_required")
		return
	}

	until, err := time.ParseInLocation(dateLayout, rec.RepeatUntil, r.loc())
	if err != nil {
		v.add("recurrence.repeat_until", "booking.repeat_until_required")
		return
	}

	today := truncateDay(now.In(r.loc()))
	if !until.After(today) {
		v.add("recurrence.repeat_until", "booking.repeat_until_past")
		return
	}

	if until.Before(truncateDay(start.In(r.loc()))) {
		v.add("recurrence.repeat_until", "booking.repeat_until_before_start")
	}
}

// ValidateForm applies every client-side rule to a complete booking form.
// Struct tags are checked separately by the handler.
func (r Rules) ValidateForm(form *MeetingForm, now time.Time) error {
	v := &ValidationError{}
	r.checkSlot(v, form.StartTime, form.EndTime, now)
	r.checkRecurrence(v, form.Recurrence, form.StartTime, now)
	return v.orNil()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
