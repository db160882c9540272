package models

import "time"

type Product struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Sprints []Sprint      `gorm:"foreignKey:ProductID" json:"sprints,omitempty"`
	Backlog []BacklogItem `gorm:"foreignKey:ProductID" json:"backlog,omitempty"`
}
