package client

import "time"

type MeetingStatus string

const (
	MeetingConfirmed       MeetingStatus = "CONFIRMED"
	MeetingCancelled       MeetingStatus = "CANCELLED"
	MeetingPendingApproval MeetingStatus = "PENDING_APPROVAL"
)

type ParticipantStatus string

const (
	ParticipantAccepted ParticipantStatus = "ACCEPTED"
	ParticipantDeclined ParticipantStatus = "DECLINED"
	ParticipantPending  ParticipantStatus = "PENDING"
)

type ResourceStatus string

const (
	StatusAvailable        ResourceStatus = "AVAILABLE"
	StatusUnderMaintenance ResourceStatus = "UNDER_MAINTENANCE"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles,omitempty"`
	IsActive bool     `json:"isActive"`
}

type Device struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      ResourceStatus `json:"status"`
}

type Room struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Location         string         `json:"location,omitempty"`
	Capacity         int            `json:"capacity"`
	Status           ResourceStatus `json:"status"`
	RequiresApproval bool           `json:"requiresApproval"`
	FixedDevices     []string       `json:"fixedDevices,omitempty"`
}

type Participant struct {
	ID       int64             `json:"id"`
	Username string            `json:"username"`
	FullName string            `json:"fullName"`
	Status   ParticipantStatus `json:"status"`
}

type RecurrenceRule struct {
	Frequency   Frequency `json:"frequency"`
	Interval    int       `json:"interval"`
	RepeatUntil string    `json:"repeatUntil"` // yyyy-mm-dd
	DaysOfWeek  []string  `json:"daysOfWeek,omitempty"`
}

type Meeting struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	Room           *Room           `json:"room,omitempty"`
	Devices        []Device        `json:"devices,omitempty"`
	Organizer      *User           `json:"organizer,omitempty"`
	Participants   []Participant   `json:"participants,omitempty"`
	GuestEmails    []string        `json:"guestEmails,omitempty"`
	RecurrenceRule *RecurrenceRule `json:"recurrenceRule,omitempty"`
	SeriesID       string          `json:"seriesId,omitempty"`
	Status         MeetingStatus   `json:"status"`
	CheckinCode    string          `json:"checkinCode,omitempty"`
	CheckedIn      bool            `json:"checkedIn,omitempty"`
}

// MeetingRequest is the body of POST /meetings and PUT /meetings/{id}.
type MeetingRequest struct {
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	StartTime      time.Time       `json:"startTime"`
	EndTime        time.Time       `json:"endTime"`
	RoomID         int64           `json:"roomId"`
	DeviceIDs      []int64         `json:"deviceIds,omitempty"`
	ParticipantIDs []int64         `json:"participantIds,omitempty"`
	GuestEmails    []string        `json:"guestEmails,omitempty"`
	RecurrenceRule *RecurrenceRule `json:"recurrenceRule,omitempty"`
}

type RoomRequest struct {
	Name             string         `json:"name"`
	Location         string         `json:"location,omitempty"`
	Capacity         int            `json:"capacity"`
	Status           ResourceStatus `json:"status,omitempty"`
	RequiresApproval bool           `json:"requiresApproval"`
	FixedDevices     []string       `json:"fixedDevices,omitempty"`
}

type DeviceRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      ResourceStatus `json:"status,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType,omitempty"`
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type ProfileRequest struct {
	FullName string `json:"fullName"`
}

type AdminUserRequest struct {
	FullName string   `json:"fullName,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	IsActive *bool    `json:"isActive,omitempty"`
}

// Page mirrors the backend's paged list envelope.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
	Size          int `json:"size"`
}

type RoomUsage struct {
	RoomID        int64   `json:"roomId"`
	RoomName      string  `json:"roomName"`
	TotalBookings int     `json:"totalBookings"`
	TotalHours    float64 `json:"totalHours"`
}

type DeviceUsage struct {
	DeviceID      int64   `json:"deviceId"`
	DeviceName    string  `json:"deviceName"`
	TotalBookings int     `json:"totalBookings"`
	TotalHours    float64 `json:"totalHours"`
}

type CancellationStats struct {
	TotalMeetings     int            `json:"totalMeetings"`
	CancelledMeetings int            `json:"cancelledMeetings"`
	ByReason          map[string]int `json:"byReason,omitempty"`
}

type VisitorStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
