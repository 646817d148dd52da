package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an admin console account in the relational database
type User struct {
	ID        *uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	CreatedAt *time.Time `gorm:"not null;default:now()"`
	UpdatedAt *time.Time `gorm:"not null;default:now()"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string     `gorm:"type:varchar(255);not null"`
	OtpCodes  []OtpCode  `gorm:"foreignKey:UserID"`
}
