package checkin

import (
	"context"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

// QRSize is the edge length in pixels of rendered check-in codes.
const QRSize = 256

// Backend is the part of the booking API this package calls.
type Backend interface {
	CheckInQR(ctx context.Context, code string) (*client.Meeting, error)
	GetMeeting(ctx context.Context, id int64) (*client.Meeting, error)
}

type Service struct {
	publicURL string
	log       *logger.Logger
}

func NewService(publicURL string, log *logger.Logger) *Service {
	return &Service{
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// ExtractCode returns the check-in code from a scanned payload: either the
// bare code or a link carrying it in the code (or checkinCode) query
// parameter.
func ExtractCode(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", apperrors.New(apperrors.CodeValidation, "empty check-in payload")
	}

	if !strings.Contains(payload, "://") && !strings.Contains(payload, "?") {
		return payload, nil
	}

	u, err := url.Parse(payload)
	if err != nil {
		return "", apperrors.NewWithDetails(apperrors.CodeValidation, "malformed check-in link", err.Error())
	}
	query := u.Query()
	for _, key := range []string{"code", "checkinCode"} {
		if code := strings.TrimSpace(query.Get(key)); code != "" {
			return code, nil
		}
	}
	return "", apperrors.New(apperrors.CodeValidation, "check-in link has no code")
}

// CheckIn marks the caller present at the meeting the payload refers to.
func (s *Service) CheckIn(ctx context.Context, api Backend, payload string) (*client.Meeting, error) {
	code, err := ExtractCode(payload)
	if err != nil {
		return nil, err
	}

	meeting, err := api.CheckInQR(ctx, code)
	if err != nil {
		return nil, err
	}
	s.log.Info("checked in", "meeting_id", meeting.ID)
	return meeting, nil
}

// MeetingQR renders the check-in QR of a meeting the caller can see.
func (s *Service) MeetingQR(ctx context.Context, api Backend, meetingID int64) ([]byte, error) {
	meeting, err := api.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	return s.RenderQR(meeting.CheckinCode)
}

// Link is the URL encoded in a meeting's QR code.
func (s *Service) Link(code string) string {
	return s.publicURL + "/checkin?code=" + url.QueryEscape(code)
}

// RenderQR draws the check-in link for code as a PNG.
func (s *Service) RenderQR(code string) ([]byte, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "meeting has no check-in code")
	}
	png, err := qrcode.Encode(s.Link(code), qrcode.Medium, QRSize)
	if err != nil {
		return nil, apperrors.NewWithDetails(apperrors.CodeInternal, "render check-in QR", err.Error())
	}
	return png, nil
}
