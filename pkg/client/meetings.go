package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

func meetingPath(id int64) string {
	return "/meetings/" + strconv.FormatInt(id, 10)
}

func (c *Client) CreateMeeting(ctx context.Context, req MeetingRequest) (*Meeting, error) {
	var meeting Meeting
	if err := c.post(ctx, "/meetings", req, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// MyMeetings lists meetings the caller organises or attends. Zero bounds
// are omitted from the query.
func (c *Client) MyMeetings(ctx context.Context, from, to time.Time) ([]Meeting, error) {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("from", formatTime(from))
	}
	if !to.IsZero() {
		query.Set("to", formatTime(to))
	}

	var meetings []Meeting
	if err := c.get(ctx, "/meetings/my-meetings", query, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

func (c *Client) GetMeeting(ctx context.Context, id int64) (*Meeting, error) {
	var meeting Meeting
	if err := c.get(ctx, meetingPath(id), nil, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (c *Client) UpdateMeeting(ctx context.Context, id int64, req MeetingRequest) (*Meeting, error) {
	var meeting Meeting
	if err := c.put(ctx, meetingPath(id), req, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (c *Client) CancelMeeting(ctx context.Context, id int64, reason string) error {
	var query url.Values
	if reason != "" {
		query = url.Values{"reason": {reason}}
	}
	return c.delete(ctx, meetingPath(id), query)
}

func (c *Client) UpdateSeries(ctx context.Context, seriesID string, req MeetingRequest) ([]Meeting, error) {
	var meetings []Meeting
	if err := c.put(ctx, "/meetings/series/"+url.PathEscape(seriesID), req, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

func (c *Client) CancelSeries(ctx context.Context, seriesID, reason string) error {
	var query url.Values
	if reason != "" {
		query = url.Values{"reason": {reason}}
	}
	return c.delete(ctx, "/meetings/series/"+url.PathEscape(seriesID), query)
}

func (c *Client) CheckInQR(ctx context.Context, code string) (*Meeting, error) {
	var meeting Meeting
	body := map[string]string{"checkinCode": code}
	if err := c.post(ctx, "/meetings/check-in/qr", body, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// RespondInvitation records the caller's answer to a meeting invitation.
func (c *Client) RespondInvitation(ctx context.Context, id int64, status ParticipantStatus) error {
	body := map[string]ParticipantStatus{"status": status}
	return c.post(ctx, meetingPath(id)+"/respond", body, nil)
}
