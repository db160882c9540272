// Package tracker writes issues and time entries into the project tracker
// tables. Meetings reference the tracker only through the IDs returned here.
package tracker

import (
	"context"
	"fmt"

	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"gorm.io/gorm"
)

// IssueRequest describes an issue to open in the tracker
type IssueRequest struct {
	ProjectID   uint64
	Title       string
	Subject     string
	Description string
	AssigneeID  uint64
	AuthorID    uint64
	Priority    int
	Status      int
	Tracker     int
}

// IssueTracker creates issues and returns their ID
type IssueTracker interface {
	CreateIssue(ctx context.Context, req IssueRequest) (uint64, error)
}

// GormIssueTracker stores issues in the tracker_issues table
type GormIssueTracker struct {
	db *gorm.DB
}

func NewIssueTracker(db *gorm.DB) *GormIssueTracker {
	return &GormIssueTracker{db: db}
}

// CreateIssue inserts a new tracker issue
func (t *GormIssueTracker) CreateIssue(ctx context.Context, req IssueRequest) (uint64, error) {
	issue := models.TrackerIssue{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Subject:     req.Subject,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		AuthorID:    req.AuthorID,
		Priority:    req.Priority,
		Status:      req.Status,
		Tracker:     req.Tracker,
	}

	if err := t.db.WithContext(ctx).Create(&issue).Error; err != nil {
		return 0, fmt.Errorf("failed to create tracker issue: %w", err)
	}

	return issue.ID, nil
}
