package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"gorm.io/gorm"
)

// Entry is one attendee's time booked against an issue
type Entry struct {
	ProjectID  uint64
	IssueID    uint64
	EmployeeID uint64
	AuthorID   uint64
	ActivityID uint64
	Hours      float64
	Comments   string
	SpentOn    time.Time
}

// TimeLogger records time entries
type TimeLogger interface {
	// ActivityID returns the ID of the named activity, creating it if needed
	ActivityID(ctx context.Context, name string) (uint64, error)

	// LogTime stores an entry and returns its ID
	LogTime(ctx context.Context, entry Entry) (uint64, error)
}

// GormTimeLogger stores entries in the time_entries table
type GormTimeLogger struct {
	db *gorm.DB
}

func NewTimeLogger(db *gorm.DB) *GormTimeLogger {
	return &GormTimeLogger{db: db}
}

// ActivityID returns the ID of the named activity, creating it if needed
func (l *GormTimeLogger) ActivityID(ctx context.Context, name string) (uint64, error) {
	activity := models.TimeEntryActivity{Name: name}
	if err := l.db.WithContext(ctx).
		Where(models.TimeEntryActivity{Name: name}).
		FirstOrCreate(&activity).Error; err != nil {
		return 0, fmt.Errorf("failed to resolve activity %q: %w", name, err)
	}
	return activity.ID, nil
}

// LogTime stores an entry. The year, month and week columns are derived
// from SpentOn; the week is the ISO week number.
func (l *GormTimeLogger) LogTime(ctx context.Context, entry Entry) (uint64, error) {
	if entry.Hours <= 0 {
		return 0, fmt.Errorf("hours must be positive, got %v", entry.Hours)
	}

	_, week := entry.SpentOn.ISOWeek()
	row := models.TimeEntry{
		ProjectID:  entry.ProjectID,
		AuthorID:   entry.AuthorID,
		EmployeeID: entry.EmployeeID,
		IssueID:    entry.IssueID,
		ActivityID: entry.ActivityID,
		Hours:      entry.Hours,
		Comments:   entry.Comments,
		SpentOn:    entry.SpentOn.Format("2006-01-02"),
		TYear:      entry.SpentOn.Year(),
		TMonth:     int(entry.SpentOn.Month()),
		TWeek:      week,
	}

	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to log time: %w", err)
	}

	return row.ID, nil
}
