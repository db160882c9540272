package dto

import (
	"time"

	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/utils"
)

// MeetingDTO represents a meeting in API responses
type MeetingDTO struct {
	ID              uint64             `json:"id"`
	Type            models.MeetingType `json:"type"`
	TypeName        string             `json:"type_name"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Link            string             `json:"link"`
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	StartTime       string             `json:"start_time"`
	EndTime         string             `json:"end_time"`
	Duration        string             `json:"duration"`
	ProductID       uint64             `json:"product_id"`
	SprintID        *uint64            `json:"sprint_id"`
	CreatorID       uint64             `json:"creator_id"`
	RecurrenceID    *string            `json:"recurrence_id"`
	Cancelled       bool               `json:"cancelled"`
	CancelReason    *string            `json:"cancel_reason,omitempty"`
	ExternalIssueID *uint64            `json:"external_issue_id,omitempty"`
	IsLogged        bool               `json:"is_logged"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Creator         *EmployeeDTO       `json:"creator,omitempty"`
	Attendees       []EmployeeDTO      `json:"attendees,omitempty"`
	UserStoryIDs    []uint64           `json:"user_story_ids,omitempty"`
}

// MeetingListItemDTO represents a meeting in calendar listings (minimal data)
type MeetingListItemDTO struct {
	ID        uint64             `json:"id"`
	Type      models.MeetingType `json:"type"`
	Title     string             `json:"title"`
	StartDate string             `json:"start_date"`
	StartTime string             `json:"start_time"`
	EndTime   string             `json:"end_time"`
	CreatorID uint64             `json:"creator_id"`
	Cancelled bool               `json:"cancelled"`
}

// MeetingListResponse represents a paginated calendar listing
type MeetingListResponse struct {
	Meetings   []MeetingListItemDTO     `json:"meetings"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ScheduleResponse is returned after scheduling a meeting or series
type ScheduleResponse struct {
	Success      bool         `json:"success"`
	RecurrenceID string       `json:"recurrence_id,omitempty"`
	Meetings     []MeetingDTO `json:"meetings"`
	Conflicts    []string     `json:"acknowledged_conflicts,omitempty"`
}

// RosterChangeDTO summarizes a roster reconciliation
type RosterChangeDTO struct {
	Added    []uint64 `json:"added"`
	Retained []uint64 `json:"retained"`
	Removed  []uint64 `json:"removed"`
}

// UpdateResponse is returned after updating a meeting or series
type UpdateResponse struct {
	Success   bool            `json:"success"`
	Meetings  []MeetingDTO    `json:"meetings"`
	Roster    RosterChangeDTO `json:"roster"`
	Conflicts []string        `json:"acknowledged_conflicts,omitempty"`
}

// TimeLogResponse is returned after logging meeting time
type TimeLogResponse struct {
	Success bool     `json:"success"`
	IssueID uint64   `json:"issue_id"`
	Logged  []uint64 `json:"logged"`
	Skipped []uint64 `json:"skipped"`
}

// ToMeetingDTO converts a Meeting model to MeetingDTO
func ToMeetingDTO(meeting models.Meeting) MeetingDTO {
	dto := MeetingDTO{
		ID:              meeting.ID,
		Type:            meeting.Type,
		TypeName:        meeting.Type.String(),
		Title:           meeting.Title,
		Description:     meeting.Description,
		Link:            meeting.Link,
		StartDate:       meeting.StartDate,
		EndDate:         meeting.EndDate,
		StartTime:       meeting.StartTime,
		EndTime:         meeting.EndTime,
		Duration:        meeting.Duration,
		ProductID:       meeting.ProductID,
		SprintID:        meeting.SprintID,
		CreatorID:       meeting.CreatorID,
		RecurrenceID:    meeting.RecurrenceID,
		Cancelled:       meeting.Cancelled(),
		CancelReason:    meeting.CancelReason,
		ExternalIssueID: meeting.ExternalIssueID,
		IsLogged:        meeting.IsLogged,
		CreatedAt:       meeting.CreatedAt,
		UpdatedAt:       meeting.UpdatedAt,
	}

	// Include creator if preloaded
	if meeting.Creator.ID != 0 {
		creator := ToEmployeeDTO(meeting.Creator)
		dto.Creator = &creator
	}

	// Include attendees if preloaded
	if len(meeting.Members) > 0 {
		dto.Attendees = make([]EmployeeDTO, 0, len(meeting.Members))
		for _, member := range meeting.Members {
			if member.Employee.ID == 0 {
				continue
			}
			dto.Attendees = append(dto.Attendees, ToEmployeeDTO(member.Employee))
		}
	}

	for _, item := range meeting.BrainstormItems {
		dto.UserStoryIDs = append(dto.UserStoryIDs, item.UserStoryID)
	}

	return dto
}

// ToMeetingDTOs converts a slice of meetings
func ToMeetingDTOs(meetings []models.Meeting) []MeetingDTO {
	out := make([]MeetingDTO, len(meetings))
	for i, m := range meetings {
		out[i] = ToMeetingDTO(m)
	}
	return out
}

// ToMeetingListItemDTO converts a Meeting model to MeetingListItemDTO
func ToMeetingListItemDTO(meeting models.Meeting) MeetingListItemDTO {
	return MeetingListItemDTO{
		ID:        meeting.ID,
		Type:      meeting.Type,
		Title:     meeting.Title,
		StartDate: meeting.StartDate,
		StartTime: meeting.StartTime,
		EndTime:   meeting.EndTime,
		CreatorID: meeting.CreatorID,
		Cancelled: meeting.Cancelled(),
	}
}

// ToMeetingListResponse converts a page of meetings to MeetingListResponse
func ToMeetingListResponse(meetings []models.Meeting, params utils.PaginationParams, total int64) MeetingListResponse {
	items := make([]MeetingListItemDTO, len(meetings))
	for i, m := range meetings {
		items[i] = ToMeetingListItemDTO(m)
	}

	return MeetingListResponse{
		Meetings: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
