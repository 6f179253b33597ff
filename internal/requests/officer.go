package requests

import "station-api/internal/attachments"

// CreateOfficerRequest represents an officer account created by an admin
type CreateOfficerRequest struct {
	FirstName      string                  `json:"first_name" validate:"required"`
	LastName       string                  `json:"last_name" validate:"required"`
	Email          string                  `json:"email" validate:"required,email"`
	Role           string                  `json:"role"`
	StationID      string                  `json:"station_id"`
	MobileNumber   string                  `json:"mobile_number"`
	Status         string                  `json:"status"`
	ProfilePicture attachments.Descriptors `json:"profile_picture"`
}

// UpdateOfficerRequest represents an admin replacing an officer's account
// details. profile_picture is optional; entries without data may reference
// the stored picture by id.
type UpdateOfficerRequest struct {
	FirstName      string                  `json:"first_name" validate:"required"`
	LastName       string                  `json:"last_name" validate:"required"`
	Email          string                  `json:"email" validate:"required,email"`
	Role           string                  `json:"role" validate:"required"`
	StationID      string                  `json:"station_id" validate:"required"`
	MobileNumber   string                  `json:"mobile_number" validate:"required"`
	Status         string                  `json:"status" validate:"required"`
	ProfilePicture attachments.Descriptors `json:"profile_picture"`
}

// UpdateOfficerProfileRequest represents an officer editing their own
// profile. A present profile_picture replaces the stored one.
type UpdateOfficerProfileRequest struct {
	FirstName      *string                 `json:"first_name" validate:"omitempty,min=1"`
	LastName       *string                 `json:"last_name" validate:"omitempty,min=1"`
	MobileNumber   *string                 `json:"mobile_number"`
	ProfilePicture attachments.Descriptors `json:"profile_picture"`
}
