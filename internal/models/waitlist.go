package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Waitlist entry statuses
const (
	WaitlistStatusPending = "pending"
)

// WaitlistTableName is shared with the SQL migrations.
const WaitlistTableName = "waitlist_users"

type WaitlistEntry struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Email     string    `gorm:"not null;uniqueIndex:idx_waitlist_users_email" json:"email"`
	Status    string    `gorm:"not null;default:pending" json:"status"`
	CreatedAt time.Time `gorm:"not null;index:idx_waitlist_users_created_at" json:"created_at"`
}

func (WaitlistEntry) TableName() string {
	return WaitlistTableName
}

func (w *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}
