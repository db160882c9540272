package models

import "time"

type BacklogItem struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	ProductID uint64    `gorm:"not null;index" json:"product_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	UserStories []UserStory `gorm:"foreignKey:BacklogItemID" json:"user_stories,omitempty"`
}

type UserStory struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	BacklogItemID uint64    `gorm:"not null;index" json:"backlog_item_id"`
	EpicID        uint64    `gorm:"not null" json:"epic_id"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	CreatedAt     time.Time `json:"created_at"`
}

// BrainstormItem ties a brainstorming meeting to the user stories discussed in it
type BrainstormItem struct {
	MeetingID     uint64 `gorm:"primarykey" json:"meeting_id"`
	UserStoryID   uint64 `gorm:"primarykey" json:"user_story_id"`
	BacklogItemID uint64 `gorm:"not null;index" json:"backlog_item_id"`
	EpicID        uint64 `gorm:"not null" json:"epic_id"`
}
