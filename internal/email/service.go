package email

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"roomdesk/config"
	"roomdesk/internal/calendar"
	"roomdesk/internal/i18n"
	"roomdesk/pkg/client"
	"roomdesk/pkg/logger"
)

// Dialer delivers messages; *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Service struct {
	cfg      config.SMTPConfig
	dialer   Dialer
	bundle   *i18n.Bundle
	locale   string
	location *time.Location
	checkin  func(code string) string
	log      *logger.Logger
}

type Options struct {
	Bundle   *i18n.Bundle
	Locale   string
	Location *time.Location
	// CheckInLink turns a check-in code into a link; nil leaves it out.
	CheckInLink func(code string) string
}

func NewService(cfg config.SMTPConfig, opts Options, log *logger.Logger) *Service {
	s := &Service{
		cfg:      cfg,
		bundle:   opts.Bundle,
		locale:   opts.Locale,
		location: opts.Location,
		checkin:  opts.CheckInLink,
		log:      log,
	}
	if s.location == nil {
		s.location = time.UTC
	}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	}
	return s
}

// WithDialer replaces the SMTP dialer.
func (s *Service) WithDialer(d Dialer) *Service {
	s.dialer = d
	return s
}

func (s *Service) Enabled() bool {
	return s.dialer != nil
}

// SendInvitation mails every guest of meeting an HTML invitation with the
// meeting attached as invite.ics. It does nothing when SMTP is not
// configured.
func (s *Service) SendInvitation(ctx context.Context, meeting *client.Meeting) error {
	if !s.Enabled() {
		s.log.Debug("smtp disabled, skipping invitations", "meeting_id", meeting.ID)
		return nil
	}
	if len(meeting.GuestEmails) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	messages := make([]*gomail.Message, 0, len(meeting.GuestEmails))
	for _, guest := range meeting.GuestEmails {
		m, err := s.BuildInvitation(meeting, guest, time.Now())
		if err != nil {
			return err
		}
		messages = append(messages, m)
	}

	if err := s.dialer.DialAndSend(messages...); err != nil {
		return fmt.Errorf("send invitations: %w", err)
	}
	s.log.Info("invitations sent", "meeting_id", meeting.ID, "guests", len(messages))
	return nil
}

// BuildInvitation renders the invitation for one guest.
func (s *Service) BuildInvitation(meeting *client.Meeting, to string, now time.Time) (*gomail.Message, error) {
	var ics bytes.Buffer
	cal := calendar.NewCalendar([]client.Meeting{*meeting}, "REQUEST", now)
	if err := calendar.Encode(&ics, cal); err != nil {
		return nil, err
	}

	body, err := s.renderBody(meeting)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", s.bundle.T(s.locale, "email.invitation_subject", meeting.Title))
	m.SetBody("text/html", body)

	data := ics.Bytes()
	m.Attach("invite.ics",
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}),
		gomail.SetHeader(map[string][]string{
			"Content-Type": {"text/calendar; charset=utf-8; method=REQUEST"},
		}),
	)
	return m, nil
}

func (s *Service) renderBody(meeting *client.Meeting) (string, error) {
	var body bytes.Buffer
	if err := invitationTemplate.Execute(&body, s.view(meeting)); err != nil {
		return "", fmt.Errorf("render invitation: %w", err)
	}
	return body.String(), nil
}

func (s *Service) view(m *client.Meeting) invitationView {
	organizer := ""
	if m.Organizer != nil {
		organizer = m.Organizer.FullName
		if organizer == "" {
			organizer = m.Organizer.Username
		}
	}

	where := ""
	if m.Room != nil {
		where = strings.TrimSpace(strings.Trim(m.Room.Name+", "+m.Room.Location, ", "))
	}

	start := m.StartTime.In(s.location)
	end := m.EndTime.In(s.location)
	v := invitationView{
		Intro:     s.bundle.T(s.locale, "email.invitation_intro", organizer),
		Title:     m.Title,
		WhenLabel: s.bundle.T(s.locale, "email.when"),
		When:      start.Format("02/01/2006 15:04") + " - " + end.Format("15:04 (MST)"),
		WhereLbl:  s.bundle.T(s.locale, "email.where"),
		Where:     where,
		OrgLabel:  s.bundle.T(s.locale, "email.organizer"),
		Organizer: organizer,
		Notes:     m.Description,
		Hint:      s.bundle.T(s.locale, "email.calendar_hint"),
	}
	if s.checkin != nil && m.CheckinCode != "" {
		v.CheckIn = s.checkin(m.CheckinCode)
	}
	return v
}
