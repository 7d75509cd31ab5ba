package client

import (
	"context"
	"net/url"
	"strconv"
)

func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/users/search", url.Values{"query": {query}}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req ProfileRequest) (*User, error) {
	var user User
	if err := c.put(ctx, "/users/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUsers lists users page by page. page is zero based, like the backend.
func (c *Client) AdminUsers(ctx context.Context, page, size int) (*Page[User], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))

	var result Page[User]
	if err := c.get(ctx, "/admin/users", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) AdminUpdateUser(ctx context.Context, id int64, req AdminUserRequest) (*User, error) {
	var user User
	if err := c.put(ctx, "/admin/users/"+strconv.FormatInt(id, 10), req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
