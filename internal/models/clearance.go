package models

import (
	"time"

	"station-api/internal/attachments"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ClearanceStatusPending = "pending"

type Payment struct {
	Processor     string `json:"processor,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Clearance is a clearance application. Proof-of-payment uploads are only
// ever appended to its attachment list.
type Clearance struct {
	Base
	UserID          uuid.UUID        `json:"user_id" gorm:"type:uuid;index;not null"`
	StationID       *uuid.UUID       `json:"station_id" gorm:"type:uuid"`
	Purpose         string           `json:"purpose" gorm:"not null"`
	AppointmentDate *time.Time       `json:"appointment_date"`
	TimeSlot        string           `json:"time_slot"`
	Price           *float64         `json:"price,omitempty"`
	Status          string           `json:"status" gorm:"not null;default:'pending'"`
	PaymentStatus   string           `json:"payment_status"`
	Payment         *Payment         `json:"payment,omitempty" gorm:"type:jsonb;serializer:json"`
	Attachments     attachments.List `json:"attachments" gorm:"type:jsonb;serializer:json"`
}

func (c *Clearance) AttachmentList() attachments.List     { return c.Attachments }
func (c *Clearance) SetAttachmentList(l attachments.List) { c.Attachments = l }

// OwnedBy reports whether the application was filed by userID.
func (c *Clearance) OwnedBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

func (c *Clearance) BeforeSave(tx *gorm.DB) error {
	if c.Status == "" {
		c.Status = ClearanceStatusPending
	}
	return nil
}

func (c *Clearance) BeforeCreate(tx *gorm.DB) error {
	if err := c.Base.BeforeCreate(tx); err != nil {
		return err
	}
	return c.Attachments.Validate()
}
