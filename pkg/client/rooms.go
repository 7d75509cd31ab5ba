package client

import (
	"context"
	"strconv"
)

func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := c.get(ctx, "/rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Client) GetRoom(ctx context.Context, id int64) (*Room, error) {
	var room Room
	if err := c.get(ctx, "/rooms/"+strconv.FormatInt(id, 10), nil, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) CreateRoom(ctx context.Context, req RoomRequest) (*Room, error) {
	var room Room
	if err := c.post(ctx, "/rooms", req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) UpdateRoom(ctx context.Context, id int64, req RoomRequest) (*Room, error) {
	var room Room
	if err := c.put(ctx, "/rooms/"+strconv.FormatInt(id, 10), req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) DeleteRoom(ctx context.Context, id int64) error {
	return c.delete(ctx, "/rooms/"+strconv.FormatInt(id, 10), nil)
}
