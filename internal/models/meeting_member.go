package models

import (
	"time"

	"gorm.io/gorm"
)

// MeetingMember is one attendance row. The composite key keeps one row per
// (meeting, employee); removal sets DeletedAt and re-adding clears it.
type MeetingMember struct {
	MeetingID  uint64         `gorm:"primarykey" json:"meeting_id"`
	EmployeeID uint64         `gorm:"primarykey" json:"employee_id"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Meeting  Meeting  `gorm:"foreignKey:MeetingID" json:"-"`
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}
