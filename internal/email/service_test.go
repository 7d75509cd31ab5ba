package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"roomdesk/config"
	"roomdesk/internal/i18n"
	"roomdesk/pkg/client"
	"roomdesk/pkg/logger"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func testMeeting() *client.Meeting {
	start := time.Date(2026, 10, 19, 2, 0, 0, 0, time.UTC)
	return &client.Meeting{
		ID:          21,
		Title:       "Kick-off",
		Description: "Bring <laptops>",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Room:        &client.Room{Name: "Huế", Location: "Floor 2"},
		Organizer:   &client.User{Username: "an@example.com", FullName: "Nguyen An"},
		GuestEmails: []string{"a@guest.org", "b@guest.org"},
		CheckinCode: "C21",
	}
}

func newTestService(t *testing.T, cfg config.SMTPConfig) *Service {
	t.Helper()
	bundle, err := i18n.Load()
	require.NoError(t, err)
	return NewService(cfg, Options{
		Bundle:      bundle,
		Locale:      "en",
		Location:    time.FixedZone("ICT", 7*3600),
		CheckInLink: func(code string) string { return "https://rooms.example.com/checkin?code=" + code },
	}, logger.Nop())
}

func TestBuildInvitation(t *testing.T) {
	s := newTestService(t, config.SMTPConfig{From: "rooms@example.com"})

	m, err := s.BuildInvitation(testMeeting(), "a@guest.org", time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"Invitation: Kick-off"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"a@guest.org"}, m.GetHeader("To"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "text/calendar; charset=utf-8; method=REQUEST")
	assert.Contains(t, raw, `filename="invite.ics"`)
}

func TestRenderBody(t *testing.T) {
	s := newTestService(t, config.SMTPConfig{})

	body, err := s.renderBody(testMeeting())
	require.NoError(t, err)
	assert.Contains(t, body, "Nguyen An invited you to a meeting.")
	assert.Contains(t, body, "19/10/2026 09:00 - 10:00 (ICT)")
	assert.Contains(t, body, "Huế, Floor 2")
	assert.Contains(t, body, "Bring &lt;laptops&gt;")
	assert.Contains(t, body, "https://rooms.example.com/checkin?code=C21")
}

func TestSendInvitation(t *testing.T) {
	s := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "rooms@example.com"})
	dialer := &recordingDialer{}
	s.WithDialer(dialer)

	require.NoError(t, s.SendInvitation(context.Background(), testMeeting()))
	require.Len(t, dialer.sent, 2)
	assert.Equal(t, []string{"b@guest.org"}, dialer.sent[1].GetHeader("To"))

	dialer.err = errors.New("connection refused")
	assert.Error(t, s.SendInvitation(context.Background(), testMeeting()))
}

func TestSendInvitationDisabled(t *testing.T) {
	s := newTestService(t, config.SMTPConfig{})
	assert.False(t, s.Enabled())
	assert.NoError(t, s.SendInvitation(context.Background(), testMeeting()))
}
