package client

import (
	"context"
	"net/url"
	"time"
)

func reportRange(from, to time.Time) url.Values {
	query := url.Values{}
	if !from.IsZero() {
		query.Set("from", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		query.Set("to", to.Format("2006-01-02"))
	}
	return query
}

func (c *Client) RoomUsage(ctx context.Context, from, to time.Time) ([]RoomUsage, error) {
	var stats []RoomUsage
	if err := c.get(ctx, "/reports/room-usage", reportRange(from, to), &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) DeviceUsage(ctx context.Context, from, to time.Time) ([]DeviceUsage, error) {
	var stats []DeviceUsage
	if err := c.get(ctx, "/reports/device-usage", reportRange(from, to), &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) CancellationStats(ctx context.Context, from, to time.Time) (*CancellationStats, error) {
	var stats CancellationStats
	if err := c.get(ctx, "/reports/cancellation-stats", reportRange(from, to), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) VisitorStats(ctx context.Context, from, to time.Time) ([]VisitorStat, error) {
	var stats []VisitorStat
	if err := c.get(ctx, "/reports/visitor-stats", reportRange(from, to), &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
