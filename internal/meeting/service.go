package meeting

import (
	"context"
	"time"

	"roomdesk/internal/device"
	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

// Backend is the part of the booking API this package calls.
type Backend interface {
	CreateMeeting(ctx context.Context, req client.MeetingRequest) (*client.Meeting, error)
	MyMeetings(ctx context.Context, from, to time.Time) ([]client.Meeting, error)
	GetMeeting(ctx context.Context, id int64) (*client.Meeting, error)
	UpdateMeeting(ctx context.Context, id int64, req client.MeetingRequest) (*client.Meeting, error)
	CancelMeeting(ctx context.Context, id int64, reason string) error
	UpdateSeries(ctx context.Context, seriesID string, req client.MeetingRequest) ([]client.Meeting, error)
	CancelSeries(ctx context.Context, seriesID, reason string) error
	RespondInvitation(ctx context.Context, id int64, status client.ParticipantStatus) error
	GetRoom(ctx context.Context, id int64) (*client.Room, error)
	ListDevices(ctx context.Context) ([]client.Device, error)
	AvailableDevices(ctx context.Context, start, end time.Time) ([]client.Device, error)
}

// Inviter is told about every meeting the portal books.
type Inviter interface {
	SendInvitation(ctx context.Context, meeting *client.Meeting) error
}

type Service struct {
	rules   Rules
	inviter Inviter
	log     *logger.Logger
	now     func() time.Time
}

func NewService(rules Rules, inviter Inviter, log *logger.Logger) *Service {
	return &Service{
		rules:   rules,
		inviter: inviter,
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) Rules() Rules {
	return s.rules
}

// Create books a meeting after the local checks pass. The returned meeting
// has status PENDING_APPROVAL when the room requires admin approval.
func (s *Service) Create(ctx context.Context, api Backend, form *MeetingForm) (*client.Meeting, error) {
	if err := s.preflight(ctx, api, form); err != nil {
		return nil, err
	}

	meeting, err := api.CreateMeeting(ctx, form.toRequest())
	if err != nil {
		return nil, err
	}

	s.log.Info("meeting booked",
		"id", meeting.ID,
		"room_id", form.RoomID,
		"status", meeting.Status,
		"series_id", meeting.SeriesID,
	)

	if s.inviter != nil && len(meeting.GuestEmails) > 0 {
		if err := s.inviter.SendInvitation(ctx, meeting); err != nil {
			s.log.Warn("failed to send guest invitations", "id", meeting.ID, "error", err)
		}
	}
	return meeting, nil
}

func (s *Service) Update(ctx context.Context, api Backend, id int64, form *MeetingForm) (*client.Meeting, error) {
	if err := s.preflight(ctx, api, form); err != nil {
		return nil, err
	}

	meeting, err := api.UpdateMeeting(ctx, id, form.toRequest())
	if err != nil {
		return nil, err
	}
	s.log.Info("meeting updated", "id", id)
	return meeting, nil
}

// UpdateSeries applies form to every future meeting of a series.
func (s *Service) UpdateSeries(ctx context.Context, api Backend, seriesID string, form *MeetingForm) ([]client.Meeting, error) {
	if seriesID == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "series id is required")
	}
	if err := s.rules.ValidateSlot(form.StartTime, form.EndTime, s.now()); err != nil {
		return nil, err
	}

	meetings, err := api.UpdateSeries(ctx, seriesID, form.toRequest())
	if err != nil {
		return nil, err
	}
	s.log.Info("series updated", "series_id", seriesID, "count", len(meetings))
	return meetings, nil
}

func (s *Service) Cancel(ctx context.Context, api Backend, id int64, reason string) error {
	if err := api.CancelMeeting(ctx, id, reason); err != nil {
		return err
	}
	s.log.Info("meeting cancelled", "id", id)
	return nil
}

func (s *Service) CancelSeries(ctx context.Context, api Backend, seriesID, reason string) error {
	if seriesID == "" {
		return apperrors.New(apperrors.CodeBadRequest, "series id is required")
	}
	if err := api.CancelSeries(ctx, seriesID, reason); err != nil {
		return err
	}
	s.log.Info("series cancelled", "series_id", seriesID)
	return nil
}

func (s *Service) Get(ctx context.Context, api Backend, id int64) (*client.Meeting, error) {
	return api.GetMeeting(ctx, id)
}

func (s *Service) MyMeetings(ctx context.Context, api Backend, from, to time.Time) ([]client.Meeting, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, apperrors.New(apperrors.CodeValidation, "to must not be before from")
	}
	return api.MyMeetings(ctx, from, to)
}

// Respond answers an invitation with ACCEPTED or DECLINED.
func (s *Service) Respond(ctx context.Context, api Backend, id int64, status client.ParticipantStatus) error {
	if status != client.ParticipantAccepted && status != client.ParticipantDeclined {
		return apperrors.New(apperrors.CodeValidation, "status must be ACCEPTED or DECLINED")
	}
	if err := api.RespondInvitation(ctx, id, status); err != nil {
		return err
	}
	s.log.Info("invitation answered", "id", id, "status", status)
	return nil
}

// Preview lists the occurrences a recurring form would create.
func (s *Service) Preview(form *MeetingForm, limit int) (*PreviewResponse, error) {
	if err := s.rules.ValidateForm(form, s.now()); err != nil {
		return nil, err
	}
	return s.rules.PreviewOccurrences(form.StartTime, form.EndTime, form.Recurrence, limit)
}

// preflight runs the checks the booking modal applies before submitting:
// calendar rules, room status and device availability for the slot.
func (s *Service) preflight(ctx context.Context, api Backend, form *MeetingForm) error {
	if err := s.rules.ValidateForm(form, s.now()); err != nil {
		return err
	}

	room, err := api.GetRoom(ctx, form.RoomID)
	if err != nil {
		return err
	}
	if room.Status == client.StatusUnderMaintenance {
		return &ValidationError{Fields: map[string]Issue{
			"room_id": {Key: "booking.room_maintenance"},
		}}
	}

	if len(form.DeviceIDs) == 0 {
		return nil
	}

	all, err := api.ListDevices(ctx)
	if err != nil {
		return err
	}
	free, err := api.AvailableDevices(ctx, form.StartTime, form.EndTime)
	if err != nil {
		return err
	}
	if missing := device.Unavailable(form.DeviceIDs, device.SelectableDevices(all, free)); len(missing) > 0 {
		return &ValidationError{Fields: map[string]Issue{
			"device_ids": {Key: "booking.device_conflict"},
		}}
	}
	return nil
}
