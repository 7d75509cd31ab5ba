package chatbot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"roomdesk/internal/i18n"
	"roomdesk/pkg/client"
	"roomdesk/pkg/logger"
)

// Backend is the part of the booking API this package calls.
type Backend interface {
	MyMeetings(ctx context.Context, from, to time.Time) ([]client.Meeting, error)
	ListRooms(ctx context.Context) ([]client.Room, error)
}

type Reply struct {
	Intent Intent   `json:"intent"`
	Text   string   `json:"text"`
	Lines  []string `json:"lines,omitempty"`
}

type Service struct {
	bundle   *i18n.Bundle
	location *time.Location
	log      *logger.Logger
	now      func() time.Time
}

func NewService(bundle *i18n.Bundle, location *time.Location, log *logger.Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{bundle: bundle, location: location, log: log, now: time.Now}
}

// Answer replies to message for the user called name.
func (s *Service) Answer(ctx context.Context, api Backend, locale, name, message string) (*Reply, error) {
	intent := Detect(message)
	reply := &Reply{Intent: intent}

	switch intent {
	case IntentGreeting:
		reply.Text = s.bundle.T(locale, "chatbot.greeting", name)

	case IntentHelp:
		reply.Text = s.bundle.T(locale, "chatbot.help")

	case IntentMeetingsToday:
		meetings, err := s.meetingsToday(ctx, api)
		if err != nil {
			return nil, err
		}
		if len(meetings) == 0 {
			reply.Text = s.bundle.T(locale, "chatbot.no_meetings")
			break
		}
		reply.Text = s.bundle.T(locale, "chatbot.meetings_today", len(meetings))
		for _, m := range meetings {
			reply.Lines = append(reply.Lines, s.meetingLine(m))
		}

	case IntentAvailableRooms:
		rooms, err := s.freeRooms(ctx, api)
		if err != nil {
			return nil, err
		}
		if len(rooms) == 0 {
			reply.Text = s.bundle.T(locale, "chatbot.no_rooms")
			break
		}
		reply.Text = s.bundle.T(locale, "chatbot.rooms_available")
		for _, r := range rooms {
			reply.Lines = append(reply.Lines, fmt.Sprintf("%s (%d)", r.Name, r.Capacity))
		}

	default:
		reply.Text = s.bundle.T(locale, "chatbot.unknown")
	}

	s.log.Debug("chatbot answered", "intent", intent)
	return reply, nil
}

func (s *Service) today() (time.Time, time.Time) {
	now := s.now().In(s.location)
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.location)
	return start, start.AddDate(0, 0, 1)
}

func (s *Service) meetingsToday(ctx context.Context, api Backend) ([]client.Meeting, error) {
	from, to := s.today()
	meetings, err := api.MyMeetings(ctx, from, to)
	if err != nil {
		return nil, err
	}

	today := make([]client.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.Status == client.MeetingCancelled {
			continue
		}
		if m.StartTime.Before(to) && m.EndTime.After(from) {
			today = append(today, m)
		}
	}
	sort.Slice(today, func(i, j int) bool { return today[i].StartTime.Before(today[j].StartTime) })
	return today, nil
}

// freeRooms lists rooms in service that none of the caller's meetings
// occupy right now. The backend exposes no room schedule, so bookings made
// by other users are not seen; the reply text says so.
func (s *Service) freeRooms(ctx context.Context, api Backend) ([]client.Room, error) {
	rooms, err := api.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from, to := s.today()
	meetings, err := api.MyMeetings(ctx, from, to)
	if err != nil {
		return nil, err
	}
	busy := make(map[int64]bool)
	for _, m := range meetings {
		if m.Room != nil && m.Status != client.MeetingCancelled && !now.Before(m.StartTime) && now.Before(m.EndTime) {
			busy[m.Room.ID] = true
		}
	}

	free := make([]client.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == client.StatusUnderMaintenance || busy[r.ID] {
			continue
		}
		free = append(free, r)
	}
	return free, nil
}

func (s *Service) meetingLine(m client.Meeting) string {
	line := m.StartTime.In(s.location).Format("15:04") + "-" + m.EndTime.In(s.location).Format("15:04") + " " + m.Title
	if m.Room != nil && m.Room.Name != "" {
		line += " (" + m.Room.Name + ")"
	}
	return strings.TrimSpace(line)
}
