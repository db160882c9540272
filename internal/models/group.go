package models

import (
	"time"

	"gorm.io/gorm"
)

// Group is a named, reusable set of attendees owned by one employee
type Group struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	OwnerID   uint64         `gorm:"not null;index" json:"owner_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner   Employee      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

type GroupMember struct {
	GroupID    uint64         `gorm:"primarykey" json:"group_id"`
	EmployeeID uint64         `gorm:"primarykey" json:"employee_id"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Group    Group    `gorm:"foreignKey:GroupID" json:"-"`
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}
