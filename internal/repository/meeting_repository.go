package repository

import (
	"time"

	"github.com/yukikurage/meeting-scheduler-api/internal/database"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMeetingRepository is a GORM implementation of MeetingRepository
type GormMeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new MeetingRepository
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &GormMeetingRepository{db: db}
}

// CreateOccurrences creates every occurrence with its roster and brainstorm items
func (r *GormMeetingRepository) CreateOccurrences(meetings []*models.Meeting, memberIDs []uint64, items []models.BrainstormItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, meeting := range meetings {
			if err := tx.Create(meeting).Error; err != nil {
				return err
			}

			if err := addMeetingMembers(tx, meeting.ID, memberIDs); err != nil {
				return err
			}

			if len(items) > 0 {
				rows := make([]models.BrainstormItem, len(items))
				for i, item := range items {
					item.MeetingID = meeting.ID
					rows[i] = item
				}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// FindByID finds a meeting by ID with optional preloading
func (r *GormMeetingRepository) FindByID(id uint64, preload ...string) (*models.Meeting, error) {
	var meeting models.Meeting
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&meeting, id).Error; err != nil {
		return nil, err
	}

	return &meeting, nil
}

// ListSeries lists the non-cancelled occurrences sharing a recurrence ID
func (r *GormMeetingRepository) ListSeries(recurrenceID string) ([]models.Meeting, error) {
	var meetings []models.Meeting
	if err := r.db.Where("recurrence_id = ? AND cancel_reason IS NULL", recurrenceID).
		Order("start_date ASC").
		Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

// ListForEmployee lists meetings the employee created or attends
func (r *GormMeetingRepository) ListForEmployee(filter MeetingFilter) ([]models.Meeting, int64, error) {
	var meetings []models.Meeting

	attendance := r.db.Model(&models.MeetingMember{}).
		Select("1").
		Where("meeting_members.meeting_id = meetings.id").
		Where("meeting_members.employee_id = ?", filter.EmployeeID).
		Where("meeting_members.deleted_at IS NULL")

	query := r.db.Model(&models.Meeting{}).
		Where(r.db.Where("meetings.creator_id = ?", filter.EmployeeID).Or("EXISTS (?)", attendance))

	if !filter.IncludeCancelled {
		query = query.Where("meetings.cancel_reason IS NULL")
	}
	if filter.DateFrom != "" {
		query = query.Where("meetings.start_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("meetings.start_date <= ?", filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("meetings.start_date ASC, meetings.start_time ASC")
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Preload("Creator").Find(&meetings).Error; err != nil {
		return nil, 0, err
	}

	return meetings, total, nil
}

type bookingRow struct {
	MeetingID  uint64
	EmployeeID uint64
	FirstName  string
	LastName   string
	Username   string
	StartTime  string
	EndTime    string
}

// FindBookings returns active attendances overlapping the window
func (r *GormMeetingRepository) FindBookings(window scheduling.Window, employeeIDs []uint64, excludeMeetingIDs []uint64) ([]scheduling.Booking, error) {
	if len(employeeIDs) == 0 {
		return []scheduling.Booking{}, nil
	}

	var rows []bookingRow
	query := r.db.Table("meeting_members").
		Select("meetings.id AS meeting_id, meeting_members.employee_id, employees.first_name, employees.last_name, employees.username, meetings.start_time, meetings.end_time").
		Joins("JOIN meetings ON meetings.id = meeting_members.meeting_id").
		Joins("JOIN employees ON employees.id = meeting_members.employee_id").
		Where("meeting_members.deleted_at IS NULL").
		Where("meetings.cancel_reason IS NULL").
		Where("meetings.start_date = ?", window.Date).
		Where("meetings.start_time < ? AND meetings.end_time > ?", window.EndTime, window.StartTime).
		Where("meeting_members.employee_id IN ?", employeeIDs)

	if len(excludeMeetingIDs) > 0 {
		query = query.Where("meetings.id NOT IN ?", excludeMeetingIDs)
	}

	if err := query.Order("meetings.start_time ASC, meeting_members.employee_id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	bookings := make([]scheduling.Booking, len(rows))
	for i, row := range rows {
		name := models.Employee{FirstName: row.FirstName, LastName: row.LastName, Username: row.Username}.DisplayName()
		bookings[i] = scheduling.Booking{
			MeetingID:    row.MeetingID,
			EmployeeID:   row.EmployeeID,
			AttendeeName: name,
			StartTime:    row.StartTime,
			EndTime:      row.EndTime,
		}
	}

	return bookings, nil
}

// ActiveMemberIDs returns the IDs of the meeting's active attendees
func (r *GormMeetingRepository) ActiveMemberIDs(meetingID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.MeetingMember{}).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC, employee_id ASC").
		Pluck("employee_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// ListMembers lists the meeting's active attendees with their employee record
func (r *GormMeetingRepository) ListMembers(meetingID uint64) ([]models.MeetingMember, error) {
	var members []models.MeetingMember
	if err := r.db.Preload("Employee").
		Where("meeting_id = ?", meetingID).
		Order("employee_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateWithRoster saves every meeting and applies its roster plan in one transaction
func (r *GormMeetingRepository) UpdateWithRoster(updates ...MeetingUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			if err := tx.Omit(clause.Associations).Save(u.Meeting).Error; err != nil {
				return err
			}

			if err := addMeetingMembers(tx, u.Meeting.ID, u.Plan.Insert); err != nil {
				return err
			}

			if len(u.Plan.SoftDelete) > 0 {
				if err := tx.Where("meeting_id = ? AND employee_id IN ?", u.Meeting.ID, u.Plan.SoftDelete).
					Delete(&models.MeetingMember{}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Cancel records the cancellation reason. The row is kept.
func (r *GormMeetingRepository) Cancel(id uint64, reason string, updaterID uint64) error {
	result := r.db.Model(&models.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cancel_reason": reason,
			"updater_id":    updaterID,
			"sequence":      gorm.Expr("sequence + 1"),
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetExternalIssue stores the tracker issue the meeting logs time against
func (r *GormMeetingRepository) SetExternalIssue(id, issueID uint64) error {
	return r.db.Model(&models.Meeting{}).
		Where("id = ?", id).
		Update("external_issue_id", issueID).Error
}

// ClaimLogging flags the meeting as time-logged. It reports false when the
// meeting was already flagged, so only one caller writes time entries.
func (r *GormMeetingRepository) ClaimLogging(id uint64) (bool, error) {
	result := r.db.Model(&models.Meeting{}).
		Where("id = ? AND is_logged = ?", id, false).
		Update("is_logged", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListBrainstormItems lists the user stories attached to a meeting
func (r *GormMeetingRepository) ListBrainstormItems(meetingID uint64) ([]models.BrainstormItem, error) {
	var items []models.BrainstormItem
	if err := r.db.Where("meeting_id = ?", meetingID).
		Order("backlog_item_id ASC, user_story_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// addMeetingMembers inserts attendance rows, reactivating soft-deleted ones
func addMeetingMembers(tx *gorm.DB, meetingID uint64, employeeIDs []uint64) error {
	if len(employeeIDs) == 0 {
		return nil
	}

	members := make([]models.MeetingMember, len(employeeIDs))
	for i, employeeID := range employeeIDs {
		members[i] = models.MeetingMember{
			MeetingID:  meetingID,
			EmployeeID: employeeID,
		}
	}

	return tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "employee_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"deleted_at": gorm.Expr("NULL")}),
		}).
		Create(&members).Error
}
