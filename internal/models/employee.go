package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Employee is an attendee identity. Meetings and groups reference employees
// by ID only.
type Employee struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName    string         `gorm:"type:varchar(100);not null;index" json:"first_name"`
	LastName     string         `gorm:"type:varchar(100)" json:"last_name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// DisplayName is the name shown in invitations and conflict messages
func (e Employee) DisplayName() string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		return e.Username
	}
	return name
}
