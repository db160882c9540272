package models

import "time"

type IssueContextKind string

const (
	IssueContextMeeting IssueContextKind = "meeting"
	IssueContextSprint  IssueContextKind = "sprint"
	IssueContextBacklog IssueContextKind = "backlog"
)

// ExternalIssueLink maps a meeting context to the tracker issue that
// collects its time entries. One link per (kind, ref).
type ExternalIssueLink struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	ContextKind IssueContextKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_issue_links_context" json:"context_kind"`
	ContextRef  uint64           `gorm:"not null;uniqueIndex:idx_issue_links_context" json:"context_ref"`
	IssueID     uint64           `gorm:"not null" json:"issue_id"`
	CreatedAt   time.Time        `json:"created_at"`
}

// TrackerIssue is an issue in the project tracker
type TrackerIssue struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ProjectID   uint64    `gorm:"not null;index" json:"project_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Subject     string    `gorm:"type:varchar(255);not null" json:"subject"`
	Description string    `gorm:"type:text" json:"description"`
	AssigneeID  uint64    `json:"assignee_id"`
	AuthorID    uint64    `json:"author_id"`
	Priority    int       `gorm:"not null" json:"priority"`
	Status      int       `gorm:"not null" json:"status"`
	Tracker     int       `gorm:"not null" json:"tracker"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
