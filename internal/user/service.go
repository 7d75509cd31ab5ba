package user

import (
	"context"
	"strings"

	"roomdesk/internal/auth"
	"roomdesk/internal/common/utils"
	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
	"roomdesk/pkg/logger"
)

// Backend is the part of the booking API this package calls.
type Backend interface {
	SearchUsers(ctx context.Context, query string) ([]client.User, error)
	Profile(ctx context.Context) (*client.User, error)
	UpdateProfile(ctx context.Context, req client.ProfileRequest) (*client.User, error)
	AdminUsers(ctx context.Context, page, size int) (*client.Page[client.User], error)
	AdminUpdateUser(ctx context.Context, id int64, req client.AdminUserRequest) (*client.User, error)
}

type Service struct {
	log *logger.Logger
}

func NewService(log *logger.Logger) *Service {
	return &Service{log: log}
}

func (s *Service) Profile(ctx context.Context, api Backend) (*client.User, error) {
	return api.Profile(ctx)
}

func (s *Service) UpdateProfile(ctx context.Context, api Backend, req *UpdateProfileRequest) (*client.User, error) {
	user, err := api.UpdateProfile(ctx, client.ProfileRequest{FullName: strings.TrimSpace(req.FullName)})
	if err != nil {
		return nil, err
	}
	s.log.Info("profile updated", "user_id", user.ID)
	return user, nil
}

// SearchUsers feeds the participant picker. Short queries return nothing,
// the caller and inactive accounts are left out.
func (s *Service) SearchUsers(ctx context.Context, api Backend, query string, selfID int64) ([]client.User, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < SearchMinLength {
		return []client.User{}, nil
	}

	users, err := api.SearchUsers(ctx, query)
	if err != nil {
		return nil, err
	}

	result := make([]client.User, 0, len(users))
	for _, u := range users {
		if u.ID == selfID || !u.IsActive {
			continue
		}
		result = append(result, u)
		if len(result) == SearchLimit {
			break
		}
	}
	return result, nil
}

// AdminUsers returns the 1-based page of the user table. The backend
// counts pages from zero.
func (s *Service) AdminUsers(ctx context.Context, api Backend, page, size int) (utils.Page[client.User], error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = utils.DefaultPageSize
	}

	result, err := api.AdminUsers(ctx, page-1, size)
	if err != nil {
		return utils.Page[client.User]{}, err
	}

	items := result.Content
	if items == nil {
		items = []client.User{}
	}
	return utils.Page[client.User]{
		Items:      items,
		Page:       result.Number + 1,
		Size:       size,
		TotalItems: result.TotalElements,
		TotalPages: utils.TotalPages(result.TotalElements, size),
	}, nil
}

// AdminUpdate changes another user's name, roles or active flag. Admins
// cannot deactivate or demote themselves.
func (s *Service) AdminUpdate(ctx context.Context, api Backend, selfID, id int64, req *AdminUpdateRequest) (*client.User, error) {
	if id == selfID {
		if req.IsActive != nil && !*req.IsActive {
			return nil, apperrors.New(apperrors.CodeForbidden, "cannot deactivate your own account")
		}
		if req.Roles != nil && !containsRole(req.Roles, "ADMIN") {
			return nil, apperrors.New(apperrors.CodeForbidden, "cannot remove your own admin role")
		}
	}

	body := client.AdminUserRequest{Roles: req.Roles, IsActive: req.IsActive}
	if req.FullName != nil {
		body.FullName = strings.TrimSpace(*req.FullName)
	}

	user, err := api.AdminUpdateUser(ctx, id, body)
	if err != nil {
		return nil, err
	}
	s.log.Info("user updated by admin", "user_id", id, "admin_id", selfID)
	return user, nil
}

func containsRole(roles []string, want string) bool {
	for _, r := range roles {
		if auth.NormalizeRole(r) == want {
			return true
		}
	}
	return false
}
