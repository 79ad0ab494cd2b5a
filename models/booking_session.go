package models

import (
	"time"

	"gorm.io/datatypes"
)

// BookingSessionRecord persists one caller's in-progress booking between
// requests when the session store is backed by the database.
type BookingSessionRecord struct {
	SessionID string         `gorm:"primaryKey;column:session_id;size:64" json:"session_id"`
	Data      datatypes.JSON `gorm:"column:data" json:"data"`
	ExpiresAt time.Time      `gorm:"column:expires_at;index" json:"expires_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (BookingSessionRecord) TableName() string {
	return "booking_sessions"
}
