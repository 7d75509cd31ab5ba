package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"roomdesk/pkg/client"
)

const productID = "-//roomdesk//booking portal//EN"

var eventStatus = map[client.MeetingStatus]string{
	client.MeetingConfirmed:       "CONFIRMED",
	client.MeetingCancelled:       "CANCELLED",
	client.MeetingPendingApproval: "TENTATIVE",
}

// NewCalendar builds a VCALENDAR holding one VEVENT per meeting. method is
// left out when empty; invitations use "REQUEST".
func NewCalendar(meetings []client.Meeting, method string, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	if method != "" {
		cal.Props.SetText(ical.PropMethod, method)
	}
	for i := range meetings {
		cal.Children = append(cal.Children, Event(&meetings[i], now))
	}
	return cal
}

// EventUID is stable for a meeting so re-imports update instead of
// duplicating.
func EventUID(m *client.Meeting) string {
	return fmt.Sprintf("meeting-%d@roomdesk", m.ID)
}

func Event(m *client.Meeting, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, EventUID(m))
	ve.Props.SetText(ical.PropSummary, m.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, m.StartTime.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, m.EndTime.UTC())

	if m.Description != "" {
		ve.Props.SetText(ical.PropDescription, m.Description)
	}
	if loc := roomLocation(m.Room); loc != "" {
		ve.Props.SetText(ical.PropLocation, loc)
	}
	if status, ok := eventStatus[m.Status]; ok {
		ve.Props.SetText(ical.PropStatus, status)
	}
	if m.Organizer != nil && m.Organizer.Username != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.Value = "mailto:" + m.Organizer.Username
		if m.Organizer.FullName != "" {
			p.Params.Set(ical.ParamCommonName, m.Organizer.FullName)
		}
		ve.Props.Add(p)
	}
	for _, participant := range m.Participants {
		p := ical.NewProp(ical.PropAttendee)
		p.Value = "mailto:" + participant.Username
		if participant.FullName != "" {
			p.Params.Set(ical.ParamCommonName, participant.FullName)
		}
		if participant.Status != "" {
			p.Params.Set(ical.ParamParticipationStatus, partStat(participant.Status))
		}
		ve.Props.Add(p)
	}
	for _, guest := range m.GuestEmails {
		p := ical.NewProp(ical.PropAttendee)
		p.Value = "mailto:" + guest
		p.Params.Set(ical.ParamParticipationStatus, "NEEDS-ACTION")
		ve.Props.Add(p)
	}
	return ve
}

// ExportICS writes meetings as an iCalendar feed.
func ExportICS(w io.Writer, meetings []client.Meeting, now time.Time) error {
	return Encode(w, NewCalendar(meetings, "", now))
}

func Encode(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func roomLocation(room *client.Room) string {
	if room == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if room.Name != "" {
		parts = append(parts, room.Name)
	}
	if room.Location != "" {
		parts = append(parts, room.Location)
	}
	return strings.Join(parts, ", ")
}

func partStat(status client.ParticipantStatus) string {
	switch status {
	case client.ParticipantAccepted:
		return "ACCEPTED"
	case client.ParticipantDeclined:
		return "DECLINED"
	default:
		return "NEEDS-ACTION"
	}
}
