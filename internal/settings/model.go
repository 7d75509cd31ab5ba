package settings

import "time"

// Preferences are per-user portal choices that the backend does not keep.
type Preferences struct {
	Username              string    `json:"username"`
	Language              string    `json:"language"`
	Theme                 string    `json:"theme"`
	CalendarView          string    `json:"calendar_view"`
	NotificationsReminder bool      `json:"notifications_reminder"`
	NotificationsInvite   bool      `json:"notifications_invite"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type UpdatePreferencesDTO struct {
	Language              *string `json:"language" validate:"omitempty,oneof=en vi"`
	Theme                 *string `json:"theme" validate:"omitempty,oneof=light dark auto"`
	CalendarView          *string `json:"calendar_view" validate:"omitempty,oneof=day week month"`
	NotificationsReminder *bool   `json:"notifications_reminder"`
	NotificationsInvite   *bool   `json:"notifications_invite"`
}

// Defaults returns the preferences of a user who never saved any.
func Defaults(username, language string) *Preferences {
	return &Preferences{
		Username:              username,
		Language:              language,
		Theme:                 "auto",
		CalendarView:          "week",
		NotificationsReminder: true,
		NotificationsInvite:   true,
	}
}

// Apply copies the set fields of dto onto p.
func (p *Preferences) Apply(dto *UpdatePreferencesDTO) {
	if dto.Language != nil {
		p.Language = *dto.Language
	}
	if dto.Theme != nil {
		p.Theme = *dto.Theme
	}
	if dto.CalendarView != nil {
		p.CalendarView = *dto.CalendarView
	}
	if dto.NotificationsReminder != nil {
		p.NotificationsReminder = *dto.NotificationsReminder
	}
	if dto.NotificationsInvite != nil {
		p.NotificationsInvite = *dto.NotificationsInvite
	}
}
