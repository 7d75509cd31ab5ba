package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var devices []Device
	if err := c.get(ctx, "/devices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (c *Client) GetDevice(ctx context.Context, id int64) (*Device, error) {
	var device Device
	if err := c.get(ctx, "/devices/"+strconv.FormatInt(id, 10), nil, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (c *Client) CreateDevice(ctx context.Context, req DeviceRequest) (*Device, error) {
	var device Device
	if err := c.post(ctx, "/devices", req, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (c *Client) UpdateDevice(ctx context.Context, id int64, req DeviceRequest) (*Device, error) {
	var device Device
	if err := c.put(ctx, "/devices/"+strconv.FormatInt(id, 10), req, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (c *Client) DeleteDevice(ctx context.Context, id int64) error {
	return c.delete(ctx, "/devices/"+strconv.FormatInt(id, 10), nil)
}

// AvailableDevices lists devices free for the whole [start, end) slot.
func (c *Client) AvailableDevices(ctx context.Context, start, end time.Time) ([]Device, error) {
	query := url.Values{}
	query.Set("startTime", formatTime(start))
	query.Set("endTime", formatTime(end))

	var devices []Device
	if err := c.get(ctx, "/devices/available", query, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}
