package models

import (
	"fmt"
	"time"

	"station-api/internal/attachments"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const BlotterStatusPending = "Pending"

type Reporter struct {
	FullName      string `json:"fullName"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type Incident struct {
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Location    Location  `json:"location"`
	Description string    `json:"description"`
}

// Blotter is an incident report. Attachments filed before binary storage
// may still hold {type, url, name} links until migrated.
type Blotter struct {
	Base
	BlotterNumber   string           `json:"blotterNumber" gorm:"uniqueIndex"`
	UserID          uuid.UUID        `json:"userId" gorm:"type:uuid;index;not null"`
	Reporter        Reporter         `json:"reporter" gorm:"type:jsonb;serializer:json"`
	Incident        Incident         `json:"incident" gorm:"type:jsonb;serializer:json"`
	Attachments     attachments.List `json:"attachments" gorm:"type:jsonb;serializer:json"`
	AssignedOfficer *uuid.UUID       `json:"assigned_Officer" gorm:"type:uuid"`
	Notes           string           `json:"notes"`
	Status          string           `json:"status" gorm:"not null;default:'Pending';index"`
}

func (b *Blotter) AttachmentList() attachments.List     { return b.Attachments }
func (b *Blotter) SetAttachmentList(l attachments.List) { b.Attachments = l }

// BeforeCreate numbers the blotter BLT-<YYYYMM>-<sequence>, the sequence
// being one past the current row count.
func (b *Blotter) BeforeCreate(tx *gorm.DB) error {
	if err := b.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if b.Status == "" {
		b.Status = BlotterStatusPending
	}
	if err := b.Attachments.Validate(); err != nil {
		return err
	}
	if b.BlotterNumber != "" {
		return nil
	}

	var count int64
	if err := tx.Session(&gorm.Session{NewDB: true}).Model(&Blotter{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to number blotter: %w", err)
	}
	b.BlotterNumber = fmt.Sprintf("BLT-%s-%06d", time.Now().Format("200601"), count+1)
	return nil
}
