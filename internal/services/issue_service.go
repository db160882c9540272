package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/meeting-scheduler-api/internal/constants"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"github.com/yukikurage/meeting-scheduler-api/internal/tracker"
	"gorm.io/gorm"
)

// IssueContext identifies what a tracker issue collects time for
type IssueContext struct {
	Kind models.IssueContextKind
	Ref  uint64
}

// IssueService keeps one tracker issue per meeting context
type IssueService struct {
	linkRepo    repository.IssueLinkRepository
	meetingRepo repository.MeetingRepository
	tracker     tracker.IssueTracker
}

// NewIssueService creates a new IssueService
func NewIssueService(linkRepo repository.IssueLinkRepository, meetingRepo repository.MeetingRepository, issueTracker tracker.IssueTracker) *IssueService {
	return &IssueService{
		linkRepo:    linkRepo,
		meetingRepo: meetingRepo,
		tracker:     issueTracker,
	}
}

// ContextFor returns the issue context of a meeting. Brainstorming sessions
// share an issue per backlog item and sprint meetings one per sprint; every
// other meeting has its own.
func (s *IssueService) ContextFor(meeting *models.Meeting) (IssueContext, error) {
	switch meeting.Type {
	case models.MeetingTypeBrainstorming:
		items, err := s.meetingRepo.ListBrainstormItems(meeting.ID)
		if err != nil {
			return IssueContext{}, fmt.Errorf("failed to load brainstorm items: %w", err)
		}
		if len(items) > 0 {
			return IssueContext{Kind: models.IssueContextBacklog, Ref: items[0].BacklogItemID}, nil
		}
	case models.MeetingTypeSprint:
		if meeting.SprintID != nil {
			return IssueContext{Kind: models.IssueContextSprint, Ref: *meeting.SprintID}, nil
		}
	}
	return IssueContext{Kind: models.IssueContextMeeting, Ref: meeting.ID}, nil
}

// EnsureIssue returns the tracker issue for the meeting's context, creating
// it on first use, and records it on the meeting. Repeated calls for the same
// context return the same issue.
func (s *IssueService) EnsureIssue(ctx context.Context, meeting *models.Meeting, actorID uint64) (uint64, error) {
	issueCtx, err := s.ContextFor(meeting)
	if err != nil {
		return 0, err
	}

	issueID, err := s.findOrCreate(ctx, issueCtx, meeting, actorID)
	if err != nil {
		return 0, err
	}

	if err := s.meetingRepo.SetExternalIssue(meeting.ID, issueID); err != nil {
		return 0, fmt.Errorf("failed to link issue to meeting: %w", err)
	}
	meeting.ExternalIssueID = &issueID

	return issueID, nil
}

func (s *IssueService) findOrCreate(ctx context.Context, issueCtx IssueContext, meeting *models.Meeting, actorID uint64) (uint64, error) {
	link, err := s.linkRepo.Find(issueCtx.Kind, issueCtx.Ref)
	if err == nil {
		return link.IssueID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to find issue link: %w", err)
	}

	title := meeting.Title
	if title == "" {
		title = "N/A"
	}

	issueID, err := s.tracker.CreateIssue(ctx, tracker.IssueRequest{
		ProjectID:   meeting.ProductID,
		Title:       title,
		Subject:     "Time logging issue for " + issueTypeLabel(meeting.Type),
		Description: "Time logging issue for meeting: " + meeting.Description,
		AssigneeID:  actorID,
		AuthorID:    actorID,
		Priority:    constants.IssuePriorityNormal,
		Status:      constants.IssueStatusNew,
		Tracker:     constants.IssueTrackerMeeting,
	})
	if err != nil {
		return 0, err
	}

	newLink := &models.ExternalIssueLink{
		ContextKind: issueCtx.Kind,
		ContextRef:  issueCtx.Ref,
		IssueID:     issueID,
	}
	if err := s.linkRepo.Create(newLink); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("failed to store issue link: %w", err)
		}
		// A concurrent request linked the context first
		winner, findErr := s.linkRepo.Find(issueCtx.Kind, issueCtx.Ref)
		if findErr != nil {
			return 0, fmt.Errorf("failed to reload issue link: %w", findErr)
		}
		return winner.IssueID, nil
	}

	return issueID, nil
}

// issueTypeLabel names the meeting type in tracker issue subjects
func issueTypeLabel(t models.MeetingType) string {
	switch t {
	case models.MeetingTypeGeneral:
		return "General meetings"
	case models.MeetingTypeBrainstorming:
		return "Backlogs Brainstroming meeting"
	case models.MeetingTypeSprint:
		return "Sprint meetings"
	default:
		return "Unknown meeting type"
	}
}
