package repository

import (
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"github.com/yukikurage/meeting-scheduler-api/internal/utils"
)

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create creates a new employee
	Create(employee *models.Employee) error

	// FindByID finds an employee by ID
	FindByID(id uint64) (*models.Employee, error)

	// FindByUsername finds an employee by username
	FindByUsername(username string) (*models.Employee, error)

	// FindByIDs returns the employees with the given IDs, ordered by ID
	FindByIDs(ids []uint64) ([]models.Employee, error)

	// ResolveTokens maps free-form selection tokens (IDs, emails, usernames or
	// first names) to employees. Tokens matching nobody are returned separately.
	ResolveTokens(tokens []string) ([]models.Employee, []string, error)
}

// MeetingFilter holds filtering options for the calendar listing
type MeetingFilter struct {
	EmployeeID       uint64
	DateFrom         string
	DateTo           string
	IncludeCancelled bool
	Pagination       utils.PaginationParams
}

// MeetingUpdate pairs a modified meeting with the roster change applied to it
type MeetingUpdate struct {
	Meeting *models.Meeting
	Plan    scheduling.RosterPlan
}

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// CreateOccurrences creates every occurrence with its roster and
	// brainstorm items in one transaction
	CreateOccurrences(meetings []*models.Meeting, memberIDs []uint64, items []models.BrainstormItem) error

	// FindByID finds a meeting by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Meeting, error)

	// ListSeries lists the non-cancelled occurrences sharing a recurrence ID
	ListSeries(recurrenceID string) ([]models.Meeting, error)

	// ListForEmployee lists meetings the employee created or attends
	ListForEmployee(filter MeetingFilter) ([]models.Meeting, int64, error)

	// FindBookings returns active attendances of the given employees in
	// non-cancelled meetings overlapping the window
	FindBookings(window scheduling.Window, employeeIDs []uint64, excludeMeetingIDs []uint64) ([]scheduling.Booking, error)

	// ActiveMemberIDs returns the IDs of the meeting's active attendees
	ActiveMemberIDs(meetingID uint64) ([]uint64, error)

	// ListMembers lists the meeting's active attendees with their employee record
	ListMembers(meetingID uint64) ([]models.MeetingMember, error)

	// UpdateWithRoster saves every meeting and applies its roster plan in
	// one transaction
	UpdateWithRoster(updates ...MeetingUpdate) error

	// Cancel records the cancellation reason
	Cancel(id uint64, reason string, updaterID uint64) error

	// SetExternalIssue stores the tracker issue the meeting logs time against
	SetExternalIssue(id, issueID uint64) error

	// ClaimLogging flags the meeting as time-logged and reports whether
	// this call made the change
	ClaimLogging(id uint64) (bool, error)

	// ListBrainstormItems lists the user stories attached to a meeting
	ListBrainstormItems(meetingID uint64) ([]models.BrainstormItem, error)
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	// Create creates a group with its initial members
	Create(group *models.Group, memberIDs []uint64) error

	// FindByID finds a group by ID
	FindByID(id uint64) (*models.Group, error)

	// ListByOwner lists the groups owned by an employee
	ListByOwner(ownerID uint64) ([]models.Group, error)

	// UpdateWithRoster saves the group and applies the roster plan atomically
	UpdateWithRoster(group *models.Group, plan scheduling.RosterPlan) error

	// Delete soft deletes a group and its members
	Delete(id uint64) error

	// ActiveMemberIDs returns the active member IDs of the given groups
	ActiveMemberIDs(groupIDs ...uint64) ([]uint64, error)

	// ListMembers lists the group's active members with their employee record
	ListMembers(groupID uint64) ([]models.GroupMember, error)
}

// ProductRepository defines the interface for product, sprint and backlog data access
type ProductRepository interface {
	// FindProduct finds a product by ID
	FindProduct(id uint64) (*models.Product, error)

	// FindSprint finds a sprint by ID with optional preloading
	FindSprint(id uint64, preload ...string) (*models.Sprint, error)

	// ListSprints lists the sprints of a product
	ListSprints(productID uint64) ([]models.Sprint, error)

	// ListSprintMembers lists a sprint's team with their employee record
	ListSprintMembers(sprintID uint64) ([]models.SprintMember, error)

	// ListProductMembers lists the distinct employees across a product's sprints
	ListProductMembers(productID uint64) ([]models.Employee, error)

	// ListBacklog lists a product's backlog items with their user stories
	ListBacklog(productID uint64) ([]models.BacklogItem, error)

	// FindUserStories returns the user stories with the given IDs
	FindUserStories(ids []uint64) ([]models.UserStory, error)
}

// IssueLinkRepository defines the interface for external issue links
type IssueLinkRepository interface {
	// Find finds the link for a context
	Find(kind models.IssueContextKind, ref uint64) (*models.ExternalIssueLink, error)

	// Create stores a new link
	Create(link *models.ExternalIssueLink) error
}
