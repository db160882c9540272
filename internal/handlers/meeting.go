package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-scheduler-api/internal/dto"
	apierrors "github.com/yukikurage/meeting-scheduler-api/internal/errors"
	"github.com/yukikurage/meeting-scheduler-api/internal/middleware"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"github.com/yukikurage/meeting-scheduler-api/internal/services"
	"github.com/yukikurage/meeting-scheduler-api/internal/utils"
)

type MeetingHandler struct {
	meetingService *services.MeetingService
}

func NewMeetingHandler(meetingService *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
	}
}

// scheduleRequest is the scheduling form. Times are minutes since midnight.
type scheduleRequest struct {
	Type                 int      `json:"type" form:"type" binding:"required"`
	Title                string   `json:"title" form:"title"`
	Description          string   `json:"description" form:"description"`
	Link                 string   `json:"link" form:"link"`
	ProductID            uint64   `json:"product_id" form:"product_id"`
	SprintID             *uint64  `json:"sprint_id" form:"sprint_id"`
	StartDate            string   `json:"start_date" form:"start_date"`
	EndDate              string   `json:"end_date" form:"end_date"`
	StartTime            *int     `json:"start_time" form:"start_time"`
	EndTime              *int     `json:"end_time" form:"end_time"`
	DurationHours        string   `json:"duration_hours" form:"duration_hours"`
	DurationMinutes      string   `json:"duration_minutes" form:"duration_minutes"`
	Recurrence           int      `json:"recurrence" form:"recurrence"`
	Attendees            []string `json:"attendees" form:"attendees"`
	GroupIDs             []uint64 `json:"group_ids" form:"group_ids"`
	UserStoryIDs         []uint64 `json:"user_story_ids" form:"user_story_ids"`
	AcknowledgeConflicts bool     `json:"acknowledge_conflicts" form:"acknowledge_conflicts"`
}

type updateRequest struct {
	Title                string   `json:"title" form:"title"`
	Description          string   `json:"description" form:"description"`
	Link                 string   `json:"link" form:"link"`
	StartDate            string   `json:"start_date" form:"start_date"`
	StartTime            *int     `json:"start_time" form:"start_time"`
	EndTime              *int     `json:"end_time" form:"end_time"`
	DurationHours        string   `json:"duration_hours" form:"duration_hours"`
	DurationMinutes      string   `json:"duration_minutes" form:"duration_minutes"`
	Attendees            []string `json:"attendees" form:"attendees"`
	GroupIDs             []uint64 `json:"group_ids" form:"group_ids"`
	UpdateAsSeries       bool     `json:"update_as_series" form:"update_as_series"`
	AcknowledgeConflicts bool     `json:"acknowledge_conflicts" form:"acknowledge_conflicts"`
}

// ListMeetings returns the calendar of the current employee
func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	employeeID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	meetings, total, err := h.meetingService.ListCalendar(services.ListCalendarInput{
		EmployeeID:       employeeID,
		DateFrom:         c.Query("from"),
		DateTo:           c.Query("to"),
		IncludeCancelled: c.Query("include_cancelled") == "true",
		Pagination:       params,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingListResponse(meetings, params, total))
}

// ScheduleMeeting creates a meeting, or one meeting per occurrence of a
// sprint series. A scheduling conflict is reported once per session; the
// next submission proceeds.
func (h *MeetingHandler) ScheduleMeeting(c *gin.Context) {
	employeeID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req scheduleRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.meetingService.Schedule(c.Request.Context(), services.ScheduleMeetingInput{
		ActorID:              employeeID,
		Type:                 models.MeetingType(req.Type),
		Title:                req.Title,
		Description:          req.Description,
		Link:                 req.Link,
		ProductID:            req.ProductID,
		SprintID:             req.SprintID,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		StartMinutes:         req.StartTime,
		EndMinutes:           req.EndTime,
		DurationHours:        req.DurationHours,
		DurationMinutes:      req.DurationMinutes,
		Recurrence:           scheduling.Pattern(req.Recurrence),
		AttendeeTokens:       req.Attendees,
		GroupIDs:             req.GroupIDs,
		UserStoryIDs:         req.UserStoryIDs,
		AcknowledgeConflicts: req.AcknowledgeConflicts || middleware.ConflictAcknowledged(c),
	})
	if err != nil {
		h.respondWriteError(c, err)
		return
	}

	h.clearAck(c)

	c.JSON(http.StatusCreated, dto.ScheduleResponse{
		Success:      true,
		RecurrenceID: result.RecurrenceID,
		Meetings:     dto.ToMeetingDTOs(result.Meetings),
		Conflicts:    result.Conflicts,
	})
}

// GetMeeting returns a meeting with its host, attendees and user stories
// Access is checked by RequireMeetingAccess
func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	loaded, ok := middleware.GetMeeting(c)
	if !ok {
		apierrors.InternalError(c, "Meeting not found in context")
		return
	}

	meeting, err := h.meetingService.GetMeeting(loaded.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMeetingDTO(*meeting))
}

// UpdateMeeting edits a meeting, or every occurrence of its series
func (h *MeetingHandler) UpdateMeeting(c *gin.Context) {
	employeeID, _ := middleware.GetUserID(c)
	meeting, ok := middleware.GetMeeting(c)
	if !ok {
		apierrors.InternalError(c, "Meeting not found in context")
		return
	}

	var req updateRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.meetingService.Update(c.Request.Context(), services.UpdateMeetingInput{
		MeetingID:            meeting.ID,
		ActorID:              employeeID,
		Title:                req.Title,
		Description:          req.Description,
		Link:                 req.Link,
		StartDate:            req.StartDate,
		StartMinutes:         req.StartTime,
		EndMinutes:           req.EndTime,
		DurationHours:        req.DurationHours,
		DurationMinutes:      req.DurationMinutes,
		AttendeeTokens:       req.Attendees,
		GroupIDs:             req.GroupIDs,
		UpdateAsSeries:       req.UpdateAsSeries,
		AcknowledgeConflicts: req.AcknowledgeConflicts || middleware.ConflictAcknowledged(c),
	})
	if err != nil {
		h.respondWriteError(c, err)
		return
	}

	h.clearAck(c)

	c.JSON(http.StatusOK, dto.UpdateResponse{
		Success:  true,
		Meetings: dto.ToMeetingDTOs(result.Meetings),
		Roster: dto.RosterChangeDTO{
			Added:    result.Plan.Insert,
			Retained: result.Plan.Retain,
			Removed:  result.Plan.SoftDelete,
		},
		Conflicts: result.Conflicts,
	})
}

// CancelMeeting records a cancellation reason and notifies the attendees
func (h *MeetingHandler) CancelMeeting(c *gin.Context) {
	employeeID, _ := middleware.GetUserID(c)
	meeting, ok := middleware.GetMeeting(c)
	if !ok {
		apierrors.InternalError(c, "Meeting not found in context")
		return
	}

	type CancelRequest struct {
		Reason string `json:"reason" form:"reason"`
	}

	var req CancelRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cancelled, err := h.meetingService.Cancel(c.Request.Context(), services.CancelMeetingInput{
		MeetingID: meeting.ID,
		ActorID:   employeeID,
		Reason:    req.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"meeting": dto.ToMeetingDTO(*cancelled),
	})
}

// logTimeRequest overrides the booked hours, comments and date. Attendees
// are only accepted as JSON.
type logTimeRequest struct {
	Attendees []struct {
		ID    uint64  `json:"id"`
		Hours float64 `json:"hours"`
	} `json:"attendees" form:"-"`
	Comments string `json:"comments" form:"comments"`
	SpentOn  string `json:"spent_on" form:"spent_on"`
}

// LogMeetingTime books attendee time against the meeting's tracker issue
func (h *MeetingHandler) LogMeetingTime(c *gin.Context) {
	employeeID, _ := middleware.GetUserID(c)
	meeting, ok := middleware.GetMeeting(c)
	if !ok {
		apierrors.InternalError(c, "Meeting not found in context")
		return
	}

	var req logTimeRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	attendees := make([]services.AttendeeHours, 0, len(req.Attendees))
	for _, a := range req.Attendees {
		attendees = append(attendees, services.AttendeeHours{EmployeeID: a.ID, Hours: a.Hours})
	}

	result, err := h.meetingService.LogTime(c.Request.Context(), services.LogTimeInput{
		MeetingID: meeting.ID,
		ActorID:   employeeID,
		Attendees: attendees,
		Comments:  req.Comments,
		SpentOn:   req.SpentOn,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TimeLogResponse{
		Success: true,
		IssueID: result.IssueID,
		Logged:  result.Logged,
		Skipped: result.Skipped,
	})
}

// respondWriteError remembers a reported conflict in the session so the
// next submission counts as acknowledged
func (h *MeetingHandler) respondWriteError(c *gin.Context, err error) {
	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		if saveErr := middleware.MarkConflictReported(c); saveErr != nil {
			log.Printf("Failed to store conflict acknowledgement: %v", saveErr)
		}
	}
	respondServiceError(c, err)
}

func (h *MeetingHandler) clearAck(c *gin.Context) {
	if err := middleware.ClearConflictAck(c); err != nil {
		log.Printf("Failed to clear conflict acknowledgement: %v", err)
	}
}
