package models

import "time"

type TimeEntryActivity struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

type TimeEntry struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	ProjectID  uint64    `gorm:"not null;index" json:"project_id"`
	AuthorID   uint64    `gorm:"not null" json:"author_id"`
	EmployeeID uint64    `gorm:"not null;index" json:"employee_id"`
	IssueID    uint64    `gorm:"not null" json:"issue_id"`
	ActivityID uint64    `gorm:"not null" json:"activity_id"`
	Hours      float64   `gorm:"not null" json:"hours"`
	Comments   string    `gorm:"type:text" json:"comments"`
	SpentOn    string    `gorm:"type:varchar(10);not null" json:"spent_on"`
	TYear      int       `gorm:"column:tyear" json:"tyear"`
	TMonth     int       `gorm:"column:tmonth" json:"tmonth"`
	TWeek      int       `gorm:"column:tweek" json:"tweek"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
