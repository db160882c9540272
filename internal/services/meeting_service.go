package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/meeting-scheduler-api/internal/lock"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/notify"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"github.com/yukikurage/meeting-scheduler-api/internal/tracker"
	"github.com/yukikurage/meeting-scheduler-api/internal/utils"
	"gorm.io/gorm"
)

// MeetingServiceOptions tunes the side effects of the meeting service
type MeetingServiceOptions struct {
	// LockTTL bounds how long slot locks survive a crashed request
	LockTTL time.Duration
	// NotifyTimeout bounds each notification attempt
	NotifyTimeout time.Duration
	// InviteDomain is the host part of calendar event UIDs
	InviteDomain string
}

// MeetingService handles meeting scheduling business logic
type MeetingService struct {
	meetingRepo repository.MeetingRepository
	productRepo repository.ProductRepository
	attendees   attendeeResolver
	issues      *IssueService
	timeLogger  tracker.TimeLogger
	notifier    *dispatcher
	locker      lock.Locker
	opts        MeetingServiceOptions
	now         func() time.Time
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(
	meetingRepo repository.MeetingRepository,
	employeeRepo repository.EmployeeRepository,
	groupRepo repository.GroupRepository,
	productRepo repository.ProductRepository,
	issues *IssueService,
	timeLogger tracker.TimeLogger,
	notifier notify.Notifier,
	locker lock.Locker,
	opts MeetingServiceOptions,
) *MeetingService {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 15 * time.Second
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 5 * time.Second
	}
	if opts.InviteDomain == "" {
		opts.InviteDomain = "meeting-scheduler"
	}

	s := &MeetingService{
		meetingRepo: meetingRepo,
		productRepo: productRepo,
		attendees:   attendeeResolver{employeeRepo: employeeRepo, groupRepo: groupRepo},
		issues:      issues,
		timeLogger:  timeLogger,
		locker:      locker,
		opts:        opts,
		now:         time.Now,
	}
	s.notifier = &dispatcher{
		notifier:  notifier,
		employees: employeeRepo,
		timeout:   opts.NotifyTimeout,
		domain:    opts.InviteDomain,
		now:       func() time.Time { return s.now() },
	}
	return s
}

// ScheduleMeetingInput represents input for scheduling a meeting.
// Times are minutes since midnight.
type ScheduleMeetingInput struct {
	ActorID         uint64
	Type            models.MeetingType
	Title           string
	Description     string
	Link            string
	ProductID       uint64
	SprintID        *uint64
	StartDate       string
	EndDate         string
	StartMinutes    *int
	EndMinutes      *int
	DurationHours   string
	DurationMinutes string
	Recurrence      scheduling.Pattern
	AttendeeTokens  []string
	GroupIDs        []uint64
	UserStoryIDs    []uint64

	// AcknowledgeConflicts proceeds past a conflict the caller has already seen
	AcknowledgeConflicts bool
}

// ScheduleResult describes the occurrences created by Schedule
type ScheduleResult struct {
	Meetings     []models.Meeting
	RecurrenceID string
	// Conflicts lists the acknowledged conflicts the write went ahead with
	Conflicts []string
}

// UpdateMeetingInput represents input for updating a meeting
type UpdateMeetingInput struct {
	MeetingID       uint64
	ActorID         uint64
	Title           string
	Description     string
	Link            string
	StartDate       string
	StartMinutes    *int
	EndMinutes      *int
	DurationHours   string
	DurationMinutes string
	AttendeeTokens  []string
	GroupIDs        []uint64

	// UpdateAsSeries applies the edit to every active occurrence of the series
	UpdateAsSeries       bool
	AcknowledgeConflicts bool
}

// UpdateResult describes the occurrences changed by Update
type UpdateResult struct {
	Meetings  []models.Meeting
	Plan      scheduling.RosterPlan
	Conflicts []string
}

// CancelMeetingInput represents input for cancelling a meeting
type CancelMeetingInput struct {
	MeetingID uint64
	ActorID   uint64
	Reason    string
}

// AttendeeHours is the time one attendee spent in the meeting.
// Zero hours means the meeting duration.
type AttendeeHours struct {
	EmployeeID uint64
	Hours      float64
}

// LogTimeInput represents input for logging meeting time. Without Attendees
// every active attendee is booked for the meeting duration. Comments
// default to the title and SpentOn to the meeting date.
type LogTimeInput struct {
	MeetingID uint64
	ActorID   uint64
	Attendees []AttendeeHours
	Comments  string
	SpentOn   string
}

// LogTimeResult reports which attendees received a time entry
type LogTimeResult struct {
	IssueID uint64
	Logged  []uint64
	Skipped []uint64
}

// ListCalendarInput represents filters for the calendar listing
type ListCalendarInput struct {
	EmployeeID       uint64
	DateFrom         string
	DateTo           string
	IncludeCancelled bool
	Pagination       utils.PaginationParams
}

// slot is a normalized time window shared by every occurrence
type slot struct {
	StartTime string
	EndTime   string
	Duration  string
}

// Schedule validates the request, checks attendee conflicts and creates one
// meeting per occurrence with its roster. The actor is added as host.
func (s *MeetingService) Schedule(ctx context.Context, input ScheduleMeetingInput) (*ScheduleResult, error) {
	v := &ValidationError{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		v.add("title", "is required")
	}
	if !input.Type.Valid() {
		v.add("type", "is not a known meeting type")
	}

	sl, err := normalizeSlot(input.StartMinutes, input.EndMinutes, input.DurationHours, input.DurationMinutes, v)
	if err != nil {
		return nil, err
	}

	dates, sprint, err := s.occurrenceDates(input, v)
	if err != nil {
		return nil, err
	}

	productID := input.ProductID
	if productID == 0 && sprint != nil {
		productID = sprint.ProductID
	}
	if productID == 0 {
		v.add("product_id", "is required")
	}

	var items []models.BrainstormItem
	if input.Type == models.MeetingTypeBrainstorming {
		items, err = s.brainstormItems(input.UserStoryIDs, v)
		if err != nil {
			return nil, err
		}
	}

	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	attendees, err := s.attendees.resolve("attendees", input.ActorID, input.AttendeeTokens, input.GroupIDs)
	if err != nil {
		return nil, err
	}
	roster := scheduling.Unique(append(append([]uint64{}, attendees...), input.ActorID))

	release, err := s.lockSlots(ctx, roster, dates)
	if err != nil {
		return nil, err
	}
	defer release()

	conflicts, err := s.findConflicts(attendees, dates, sl, nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 && !input.AcknowledgeConflicts {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	result := &ScheduleResult{Conflicts: conflicts}

	var recurrenceID *string
	if input.Type == models.MeetingTypeSprint && input.Recurrence != scheduling.PatternNone {
		token := uuid.NewString()
		recurrenceID = &token
		result.RecurrenceID = token
	}

	var sprintID *uint64
	if sprint != nil {
		id := sprint.ID
		sprintID = &id
	}

	occurrences := make([]*models.Meeting, len(dates))
	for i, date := range dates {
		occurrences[i] = &models.Meeting{
			Type:         input.Type,
			Title:        title,
			Description:  strings.TrimSpace(input.Description),
			Link:         strings.TrimSpace(input.Link),
			StartDate:    date,
			EndDate:      date,
			StartTime:    sl.StartTime,
			EndTime:      sl.EndTime,
			Duration:     sl.Duration,
			ProductID:    productID,
			SprintID:     sprintID,
			CreatorID:    input.ActorID,
			RecurrenceID: recurrenceID,
		}
	}

	if err := s.meetingRepo.CreateOccurrences(occurrences, roster, items); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	result.Meetings = make([]models.Meeting, len(occurrences))
	for i, m := range occurrences {
		result.Meetings[i] = *m
	}

	s.notifier.send(ctx, notification{
		template:  templateInvite,
		meetings:  result.Meetings,
		recipient: roster,
		actorID:   input.ActorID,
	})

	return result, nil
}

// Update edits a meeting and reconciles its roster. Recurrence is never
// re-expanded; with UpdateAsSeries the edit reaches every active occurrence
// of the series, each keeping its own date.
func (s *MeetingService) Update(ctx context.Context, input UpdateMeetingInput) (*UpdateResult, error) {
	meeting, err := s.findMeeting(input.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.Cancelled() {
		return nil, ErrMeetingCancelled
	}
	if meeting.CreatorID != input.ActorID {
		return nil, ErrNotMeetingHost
	}

	v := &ValidationError{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		v.add("title", "is required")
	}

	sl, err := normalizeSlot(input.StartMinutes, input.EndMinutes, input.DurationHours, input.DurationMinutes, v)
	if err != nil {
		return nil, err
	}

	series := input.UpdateAsSeries && meeting.RecurrenceID != nil

	newDate := ""
	if input.StartDate != "" && !series {
		d, err := scheduling.ParseDate("start_date", input.StartDate)
		if err != nil {
			return nil, err
		}
		newDate = scheduling.FormatDate(d)
	}

	if err := v.errOrNil(); err != nil {
		return nil, err
	}

	attendees, err := s.attendees.resolve("attendees", input.ActorID, input.AttendeeTokens, input.GroupIDs)
	if err != nil {
		return nil, err
	}
	// The host stays on the roster
	desired := scheduling.Unique(append(append([]uint64{}, attendees...), meeting.CreatorID))

	targets := []models.Meeting{*meeting}
	if series {
		targets, err = s.meetingRepo.ListSeries(*meeting.RecurrenceID)
		if err != nil {
			return nil, fmt.Errorf("failed to load series: %w", err)
		}
	} else if newDate != "" {
		targets[0].StartDate = newDate
		targets[0].EndDate = newDate
	}

	dates := make([]string, len(targets))
	targetIDs := make([]uint64, len(targets))
	for i, t := range targets {
		dates[i] = t.StartDate
		targetIDs[i] = t.ID
	}

	release, err := s.lockSlots(ctx, desired, dates)
	if err != nil {
		return nil, err
	}
	defer release()

	conflicts, err := s.findConflicts(attendees, dates, sl, targetIDs)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 && !input.AcknowledgeConflicts {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	result := &UpdateResult{Conflicts: conflicts}
	updates := make([]repository.MeetingUpdate, len(targets))
	removed := make([]uint64, 0)
	actorID := input.ActorID

	for i := range targets {
		target := &targets[i]

		existing, err := s.meetingRepo.ActiveMemberIDs(target.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load roster: %w", err)
		}
		plan := scheduling.Reconcile(desired, existing)
		if target.ID == meeting.ID {
			result.Plan = plan
		}
		removed = append(removed, plan.SoftDelete...)

		target.Title = title
		target.Description = strings.TrimSpace(input.Description)
		target.Link = strings.TrimSpace(input.Link)
		target.StartTime = sl.StartTime
		target.EndTime = sl.EndTime
		target.Duration = sl.Duration
		target.UpdaterID = &actorID
		target.Sequence++

		updates[i] = repository.MeetingUpdate{Meeting: target, Plan: plan}
	}

	if err := s.meetingRepo.UpdateWithRoster(updates...); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}

	result.Meetings = targets

	s.notifier.send(ctx, notification{
		template:  templateUpdated,
		meetings:  targets,
		recipient: desired,
		actorID:   input.ActorID,
	})
	if removed = scheduling.Unique(removed); len(removed) > 0 {
		s.notifier.send(ctx, notification{
			template:  templateCancelled,
			meetings:  targets,
			recipient: removed,
			actorID:   input.ActorID,
			reason:    "You have been removed from this meeting",
		})
	}

	return result, nil
}

// Cancel records a cancellation reason. The meeting stays queryable and
// cancelling again overwrites the reason and notifies attendees again.
func (s *MeetingService) Cancel(ctx context.Context, input CancelMeetingInput) (*models.Meeting, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, &ValidationError{Fields: map[string]string{"reason": "is required"}}
	}

	meeting, err := s.findMeeting(input.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.CreatorID != input.ActorID {
		return nil, ErrNotMeetingHost
	}

	if err := s.meetingRepo.Cancel(meeting.ID, reason, input.ActorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to cancel meeting: %w", err)
	}

	meeting, err = s.findMeeting(meeting.ID)
	if err != nil {
		return nil, err
	}

	roster, err := s.meetingRepo.ActiveMemberIDs(meeting.ID)
	if err != nil {
		log.Printf("Failed to load roster of cancelled meeting %d: %v", meeting.ID, err)
		return meeting, nil
	}

	s.notifier.send(ctx, notification{
		template:  templateCancelled,
		meetings:  []models.Meeting{*meeting},
		recipient: roster,
		actorID:   input.ActorID,
		reason:    reason,
	})

	return meeting, nil
}

// LogTime books attendee time against the meeting's tracker issue. The
// meeting is claimed before any entry is written, so a second call fails with
// ErrMeetingAlreadyLogged. A failed entry is logged and skipped.
func (s *MeetingService) LogTime(ctx context.Context, input LogTimeInput) (*LogTimeResult, error) {
	meeting, err := s.findMeeting(input.MeetingID)
	if err != nil {
		return nil, err
	}
	if meeting.CreatorID != input.ActorID {
		return nil, ErrNotMeetingHost
	}
	if meeting.Cancelled() {
		return nil, ErrMeetingCancelled
	}
	if meeting.IsLogged {
		return nil, ErrMeetingAlreadyLogged
	}

	defaultHours, err := scheduling.DurationHours(meeting.Duration)
	if err != nil {
		return nil, err
	}

	spentOnRaw := meeting.StartDate
	if strings.TrimSpace(input.SpentOn) != "" {
		spentOnRaw = input.SpentOn
	}
	spentOn, err := scheduling.ParseDate("spent_on", spentOnRaw)
	if err != nil {
		return nil, err
	}

	comments := strings.TrimSpace(input.Comments)
	if comments == "" {
		comments = meeting.Title
	}

	roster, err := s.meetingRepo.ActiveMemberIDs(meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	entries, err := attendeeHours(roster, input.Attendees, defaultHours)
	if err != nil {
		return nil, err
	}

	issueID, err := s.issues.EnsureIssue(ctx, meeting, input.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure tracker issue: %w", err)
	}

	activityID, err := s.timeLogger.ActivityID(ctx, activityFor(meeting.Type))
	if err != nil {
		return nil, err
	}

	claimed, err := s.meetingRepo.ClaimLogging(meeting.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark meeting logged: %w", err)
	}
	if !claimed {
		return nil, ErrMeetingAlreadyLogged
	}

	result := &LogTimeResult{IssueID: issueID, Logged: []uint64{}, Skipped: []uint64{}}
	for _, entry := range entries {
		_, err := s.timeLogger.LogTime(ctx, tracker.Entry{
			ProjectID:  meeting.ProductID,
			IssueID:    issueID,
			EmployeeID: entry.EmployeeID,
			AuthorID:   input.ActorID,
			ActivityID: activityID,
			Hours:      entry.Hours,
			Comments:   comments,
			SpentOn:    spentOn,
		})
		if err != nil {
			log.Printf("Failed to log time for employee %d on meeting %d: %v", entry.EmployeeID, meeting.ID, err)
			result.Skipped = append(result.Skipped, entry.EmployeeID)
			continue
		}
		result.Logged = append(result.Logged, entry.EmployeeID)
	}

	return result, nil
}

// attendeeHours fills in default hours and checks requested attendees
// against the roster. An empty request books the whole roster.
func attendeeHours(roster []uint64, requested []AttendeeHours, defaultHours float64) ([]AttendeeHours, error) {
	if len(requested) == 0 {
		entries := make([]AttendeeHours, len(roster))
		for i, id := range roster {
			entries[i] = AttendeeHours{EmployeeID: id, Hours: defaultHours}
		}
		return entries, nil
	}

	onRoster := make(map[uint64]struct{}, len(roster))
	for _, id := range roster {
		onRoster[id] = struct{}{}
	}

	v := &ValidationError{}
	seen := make(map[uint64]struct{}, len(requested))
	entries := make([]AttendeeHours, 0, len(requested))
	for _, a := range requested {
		if _, ok := onRoster[a.EmployeeID]; !ok {
			v.add("attendees", fmt.Sprintf("employee %d is not an attendee", a.EmployeeID))
			continue
		}
		if _, dup := seen[a.EmployeeID]; dup {
			v.add("attendees", fmt.Sprintf("employee %d is listed more than once", a.EmployeeID))
			continue
		}
		seen[a.EmployeeID] = struct{}{}

		if a.Hours < 0 {
			v.add("hours", "must not be negative")
			continue
		}
		if a.Hours == 0 {
			a.Hours = defaultHours
		}
		entries = append(entries, a)
	}

	if err := v.errOrNil(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetMeeting returns a meeting with its host, roster and brainstorm items
func (s *MeetingService) GetMeeting(meetingID uint64) (*models.Meeting, error) {
	return s.findMeeting(meetingID, "Creator", "Members", "Members.Employee", "BrainstormItems")
}

// ListCalendar returns the meetings an employee hosts or attends
func (s *MeetingService) ListCalendar(input ListCalendarInput) ([]models.Meeting, int64, error) {
	filter := repository.MeetingFilter{
		EmployeeID:       input.EmployeeID,
		IncludeCancelled: input.IncludeCancelled,
		Pagination:       input.Pagination,
	}

	if input.DateFrom != "" {
		d, err := scheduling.ParseDate("from", input.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		filter.DateFrom = scheduling.FormatDate(d)
	}
	if input.DateTo != "" {
		d, err := scheduling.ParseDate("to", input.DateTo)
		if err != nil {
			return nil, 0, err
		}
		filter.DateTo = scheduling.FormatDate(d)
	}

	meetings, total, err := s.meetingRepo.ListForEmployee(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list meetings: %w", err)
	}

	return meetings, total, nil
}

// IsAttendee reports whether the employee hosts or actively attends the meeting
func (s *MeetingService) IsAttendee(meeting *models.Meeting, employeeID uint64) (bool, error) {
	if meeting.CreatorID == employeeID {
		return true, nil
	}
	ids, err := s.meetingRepo.ActiveMemberIDs(meeting.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load roster: %w", err)
	}
	for _, id := range ids {
		if id == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MeetingService) findMeeting(id uint64, preload ...string) (*models.Meeting, error) {
	meeting, err := s.meetingRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	return meeting, nil
}

// occurrenceDates picks the authoritative dates for the meeting type.
// Sprint meetings take their range from the request or fall back to the
// sprint and expand it by the recurrence pattern.
func (s *MeetingService) occurrenceDates(input ScheduleMeetingInput, v *ValidationError) ([]string, *models.Sprint, error) {
	var sprint *models.Sprint

	needsSprint := input.Type == models.MeetingTypeSprint || input.Type == models.MeetingTypeReview
	if needsSprint {
		if input.SprintID == nil || *input.SprintID == 0 {
			v.add("sprint_id", "is required")
		} else {
			found, err := s.productRepo.FindSprint(*input.SprintID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, nil, ErrSprintNotFound
				}
				return nil, nil, fmt.Errorf("failed to find sprint: %w", err)
			}
			sprint = found
		}
	}

	switch input.Type {
	case models.MeetingTypeSprint:
		if !input.Recurrence.Valid() {
			v.add("recurrence", "must be between 0 and 7")
			return nil, sprint, nil
		}

		startRaw, endRaw := input.StartDate, input.EndDate
		if sprint != nil {
			if startRaw == "" {
				startRaw = sprint.StartDate
			}
			if endRaw == "" {
				endRaw = sprint.EndDate
			}
		}
		if startRaw == "" {
			v.add("start_date", "is required")
			return nil, sprint, nil
		}
		if endRaw == "" {
			endRaw = startRaw
		}

		start, err := scheduling.ParseDate("start_date", startRaw)
		if err != nil {
			return nil, nil, err
		}
		end, err := scheduling.ParseDate("end_date", endRaw)
		if err != nil {
			return nil, nil, err
		}

		expanded := scheduling.ExpandRecurrence(start, end, input.Recurrence)
		if len(expanded) == 0 {
			v.add("end_date", "must not be before start_date")
			return nil, sprint, nil
		}

		dates := make([]string, len(expanded))
		for i, d := range expanded {
			dates[i] = scheduling.FormatDate(d)
		}
		return dates, sprint, nil

	case models.MeetingTypeGeneral, models.MeetingTypeBrainstorming, models.MeetingTypeReview:
		if strings.TrimSpace(input.StartDate) == "" {
			v.add("start_date", "is required")
			return nil, sprint, nil
		}
		start, err := scheduling.ParseDate("start_date", input.StartDate)
		if err != nil {
			return nil, nil, err
		}
		return []string{scheduling.FormatDate(start)}, sprint, nil
	}

	return nil, sprint, nil
}

// brainstormItems loads the selected user stories with their backlog item and epic
func (s *MeetingService) brainstormItems(storyIDs []uint64, v *ValidationError) ([]models.BrainstormItem, error) {
	storyIDs = scheduling.Unique(storyIDs)
	if len(storyIDs) == 0 {
		v.add("user_story_ids", "select at least one user story")
		return nil, nil
	}

	stories, err := s.productRepo.FindUserStories(storyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stories: %w", err)
	}
	if len(stories) != len(storyIDs) {
		v.add("user_story_ids", "contains unknown user stories")
		return nil, nil
	}

	items := make([]models.BrainstormItem, len(stories))
	for i, story := range stories {
		items[i] = models.BrainstormItem{
			UserStoryID:   story.ID,
			BacklogItemID: story.BacklogItemID,
			EpicID:        story.EpicID,
		}
	}
	return items, nil
}

// lockSlots takes the (attendee, date) locks guarding the conflict check and
// the write that follows it
func (s *MeetingService) lockSlots(ctx context.Context, employeeIDs []uint64, dates []string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	keys := make([]string, 0, len(employeeIDs)*len(dates))
	for _, date := range dates {
		for _, id := range employeeIDs {
			keys = append(keys, lock.SlotKey(id, date))
		}
	}

	release, err := s.locker.Acquire(ctx, keys, s.opts.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, fmt.Errorf("failed to lock slots: %w", err)
	}
	return release, nil
}

// findConflicts checks every date of the write and merges the descriptions
// in first-seen order
func (s *MeetingService) findConflicts(candidates []uint64, dates []string, sl slot, exclude []uint64) ([]string, error) {
	seen := make(map[string]struct{})
	conflicts := make([]string, 0)

	for _, date := range dates {
		window := scheduling.Window{Date: date, StartTime: sl.StartTime, EndTime: sl.EndTime}

		bookings, err := s.meetingRepo.FindBookings(window, candidates, exclude)
		if err != nil {
			return nil, fmt.Errorf("failed to check conflicts: %w", err)
		}

		for _, c := range scheduling.FindConflicts(candidates, window, bookings) {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			conflicts = append(conflicts, c)
		}
	}

	return conflicts, nil
}

// normalizeSlot converts the minute offsets and duration parts into stored
// clock values. Missing or out-of-range fields go into v; an unparseable
// duration is returned as an error.
func normalizeSlot(startMinutes, endMinutes *int, durationHours, durationMinutes string, v *ValidationError) (slot, error) {
	var sl slot

	validMinute := func(field string, m *int) bool {
		if m == nil {
			v.add(field, "is required")
			return false
		}
		if *m < 0 || *m >= scheduling.MinutesPerDay {
			v.add(field, "must be within the day")
			return false
		}
		return true
	}

	startOK := validMinute("start_time", startMinutes)
	endOK := validMinute("end_time", endMinutes)
	if startOK && endOK && *startMinutes >= *endMinutes {
		v.add("end_time", "must be after start_time")
		endOK = false
	}
	if startOK {
		sl.StartTime = scheduling.MinutesToClockTime(*startMinutes)
	}
	if endOK {
		sl.EndTime = scheduling.MinutesToClockTime(*endMinutes)
	}

	if strings.TrimSpace(durationHours) == "" && strings.TrimSpace(durationMinutes) == "" {
		// Without explicit parts the duration is the slot length
		if startOK && endOK {
			length := *endMinutes - *startMinutes
			sl.Duration = scheduling.DurationFromParts(length/60, length%60)
		}
		return sl, nil
	}

	hours, minutes, err := scheduling.DurationParts(durationHours, durationMinutes)
	if err != nil {
		return slot{}, err
	}
	switch {
	case hours < 0:
		v.add("duration_hours", "must not be negative")
	case minutes < 0 || minutes >= 60:
		v.add("duration_minutes", "must be between 0 and 59")
	case hours == 0 && minutes == 0:
		v.add("duration", "must be positive")
	}
	sl.Duration = scheduling.DurationFromParts(hours, minutes)

	return sl, nil
}

// activityFor names the time-entry activity used for a meeting type
func activityFor(t models.MeetingType) string {
	switch t {
	case models.MeetingTypeSprint:
		return "Daily Stand up Meeting"
	case models.MeetingTypeReview:
		return "Sprint Review"
	default:
		return "Team Meeting"
	}
}
