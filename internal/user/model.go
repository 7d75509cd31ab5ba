package user

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

type AdminUpdateRequest struct {
	FullName *string  `json:"full_name" validate:"omitempty,min=2,max=100"`
	Roles    []string `json:"roles" validate:"omitempty,dive,oneof=USER ADMIN"`
	IsActive *bool    `json:"is_active"`
}

// SearchMinLength is the shortest query sent to the backend; the
// participant picker stays empty below it.
const SearchMinLength = 2

// SearchLimit caps the picker's suggestion list.
const SearchLimit = 20
