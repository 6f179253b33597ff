package models

import (
	"time"

	"station-api/internal/attachments"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement is a station notice with an ordered attachment list
type Announcement struct {
	Base
	StationID   uuid.UUID        `json:"station_id" gorm:"type:uuid;index;not null"`
	Title       string           `json:"title" gorm:"not null"`
	Details     string           `json:"details" gorm:"not null"`
	Status      string           `json:"status" gorm:"not null"`
	Date        time.Time        `json:"date"`
	Attachments attachments.List `json:"attachments" gorm:"type:jsonb;serializer:json"`
}

func (a *Announcement) AttachmentList() attachments.List     { return a.Attachments }
func (a *Announcement) SetAttachmentList(l attachments.List) { a.Attachments = l }

func (a *Announcement) BeforeSave(tx *gorm.DB) error {
	if a.Date.IsZero() {
		a.Date = time.Now()
	}
	return nil
}

// BeforeCreate checks the attachment invariants. Later saves carry stored
// records as they are; new ones go through attachments.Set.
func (a *Announcement) BeforeCreate(tx *gorm.DB) error {
	if err := a.Base.BeforeCreate(tx); err != nil {
		return err
	}
	return a.Attachments.Validate()
}
