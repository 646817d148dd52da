package models

import (
	"time"

	"github.com/google/uuid"
)

// OtpCode is a single issued one time password, append only.
// Rows are never updated; the row with the highest ID is the only
// one considered during verification and it is deleted once consumed.
type OtpCode struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	UserID    *uuid.UUID `gorm:"type:uuid;index;not null"`
	Code      string     `gorm:"type:varchar(6);not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	CreatedAt time.Time  `gorm:"not null;default:now()"`
}
