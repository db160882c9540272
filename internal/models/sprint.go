package models

import "time"

type SprintStatus string

const (
	SprintStatusPlanned   SprintStatus = "PLANNED"
	SprintStatusActive    SprintStatus = "ACTIVE"
	SprintStatusCompleted SprintStatus = "COMPLETED"
)

type Sprint struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	ProductID uint64       `gorm:"not null;index" json:"product_id"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	Status    SprintStatus `gorm:"type:varchar(20);not null;default:'PLANNED'" json:"status"`
	StartDate string       `gorm:"type:varchar(10);not null" json:"start_date"`
	EndDate   string       `gorm:"type:varchar(10);not null" json:"end_date"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Relations
	Product Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Members []SprintMember `gorm:"foreignKey:SprintID" json:"members,omitempty"`
}

type SprintMember struct {
	SprintID   uint64 `gorm:"primarykey" json:"sprint_id"`
	EmployeeID uint64 `gorm:"primarykey" json:"employee_id"`

	// Relations
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}
