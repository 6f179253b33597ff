package models

import (
	"station-api/internal/attachments"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Officer holds at most one attachment, its profile picture.
type Officer struct {
	Base
	FirstName      string              `json:"first_name" gorm:"not null"`
	LastName       string              `json:"last_name" gorm:"not null"`
	Email          string              `json:"email" gorm:"not null;uniqueIndex"`
	Role           string              `json:"role"`
	StationID      *uuid.UUID          `json:"station_id" gorm:"type:uuid;index"`
	MobileNumber   string              `json:"mobile_number"`
	Status         string              `json:"status" gorm:"not null;default:'active'"`
	ProfilePicture *attachments.Record `json:"profile_picture" gorm:"type:jsonb;serializer:json"`
}

// AttachmentList exposes the picture as a list of zero or one record.
func (o *Officer) AttachmentList() attachments.List {
	if o.ProfilePicture == nil {
		return nil
	}
	return attachments.List{*o.ProfilePicture}
}

// SetAttachmentList keeps the first record; callers reject longer lists.
func (o *Officer) SetAttachmentList(l attachments.List) {
	if len(l) == 0 {
		o.ProfilePicture = nil
		return
	}
	rec := l[0]
	o.ProfilePicture = &rec
}

func (o *Officer) BeforeSave(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = "active"
	}
	return nil
}

func (o *Officer) BeforeCreate(tx *gorm.DB) error {
	if err := o.Base.BeforeCreate(tx); err != nil {
		return err
	}
	return o.AttachmentList().Validate()
}
