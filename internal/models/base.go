package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the persistent identifier that every retrieval URL is built
// from, plus timestamps.
type Base struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Identifier is the id as it appears in attachment URLs.
func (b *Base) Identifier() string { return b.ID.String() }

// All lists the models migrated at startup.
func All() []interface{} {
	return []interface{}{
		&Announcement{},
		&Blotter{},
		&Clearance{},
		&Officer{},
	}
}
