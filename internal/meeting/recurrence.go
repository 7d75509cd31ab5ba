package meeting

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxPreview caps how many occurrences a preview lists.
const MaxPreview = 52

var frequencies = map[string]rrule.Frequency{
	"DAILY":   rrule.DAILY,
	"WEEKLY":  rrule.WEEKLY,
	"MONTHLY": rrule.MONTHLY,
}

var weekdays = map[string]rrule.Weekday{
	"MONDAY":    rrule.MO,
	"TUESDAY":   rrule.TU,
	"WEDNESDAY": rrule.WE,
	"THURSDAY":  rrule.TH,
	"FRIDAY":    rrule.FR,
	"SATURDAY":  rrule.SA,
	"SUNDAY":    rrule.SU,
}

// PreviewOccurrences expands the first slot of a series into the meetings
// the backend will create, up to limit entries. The repeat-until date is
// inclusive.
func (r Rules) PreviewOccurrences(start, end time.Time, rec *RecurrenceForm, limit int) (*PreviewResponse, error) {
	if rec == nil {
		return &PreviewResponse{Occurrences: []Occurrence{{StartTime: start, EndTime: end}}}, nil
	}
	if limit <= 0 || limit > MaxPreview {
		limit = MaxPreview
	}

	freq, ok := frequencies[rec.Frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency %q", rec.Frequency)
	}

	until, err := time.ParseInLocation(dateLayout, rec.RepeatUntil, r.loc())
	if err != nil {
		return nil, fmt.Errorf("parse repeat until: %w", err)
	}

	interval := rec.Interval
	if interval == 0 {
		interval = 1
	}

	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  start.In(r.loc()),
		Until:    until.Add(24*time.Hour - time.Second),
	}
	if freq == rrule.WEEKLY {
		for _, day := range rec.DaysOfWeek {
			wd, ok := weekdays[day]
			if !ok {
				return nil, fmt.Errorf("unknown weekday %q", day)
			}
			opt.Byweekday = append(opt.Byweekday, wd)
		}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build recurrence: %w", err)
	}

	duration := end.Sub(start)
	preview := &PreviewResponse{}
	next := rule.Iterator()
	for {
		occ, ok := next()
		if !ok {
			break
		}
		if len(preview.Occurrences) == limit {
			preview.Truncated = true
			break
		}
		preview.Occurrences = append(preview.Occurrences, Occurrence{
			StartTime: occ,
			EndTime:   occ.Add(duration),
		})
	}
	return preview, nil
}
