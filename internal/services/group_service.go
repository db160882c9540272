package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"gorm.io/gorm"
)

// GroupService handles attendee group business logic
type GroupService struct {
	groupRepo repository.GroupRepository
	members   attendeeResolver
}

// NewGroupService creates a new GroupService
func NewGroupService(groupRepo repository.GroupRepository, employeeRepo repository.EmployeeRepository) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		// Groups are not expanded into other groups
		members: attendeeResolver{employeeRepo: employeeRepo},
	}
}

// CreateGroupInput represents input for creating a group
type CreateGroupInput struct {
	OwnerID      uint64
	Name         string
	MemberTokens []string
}

// UpdateGroupInput represents input for editing a group
type UpdateGroupInput struct {
	GroupID      uint64
	ActorID      uint64
	Name         string
	MemberTokens []string
}

// CreateGroup creates a group with its initial members
func (s *GroupService) CreateGroup(input CreateGroupInput) (*models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, &ValidationError{Fields: map[string]string{"name": "is required"}}
	}

	memberIDs, err := s.members.resolve("members", 0, input.MemberTokens, nil)
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		OwnerID: input.OwnerID,
		Name:    name,
	}
	if err := s.groupRepo.Create(group, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return s.GetGroup(group.ID)
}

// UpdateGroup renames a group and reconciles its members
func (s *GroupService) UpdateGroup(input UpdateGroupInput) (*models.Group, scheduling.RosterPlan, error) {
	group, err := s.findOwnedGroup(input.GroupID, input.ActorID)
	if err != nil {
		return nil, scheduling.RosterPlan{}, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, scheduling.RosterPlan{}, &ValidationError{Fields: map[string]string{"name": "is required"}}
	}

	desired, err := s.members.resolve("members", 0, input.MemberTokens, nil)
	if err != nil {
		return nil, scheduling.RosterPlan{}, err
	}

	existing, err := s.groupRepo.ActiveMemberIDs(group.ID)
	if err != nil {
		return nil, scheduling.RosterPlan{}, fmt.Errorf("failed to load group members: %w", err)
	}

	plan := scheduling.Reconcile(desired, existing)
	group.Name = name

	if err := s.groupRepo.UpdateWithRoster(group, plan); err != nil {
		return nil, scheduling.RosterPlan{}, fmt.Errorf("failed to update group: %w", err)
	}

	updated, err := s.GetGroup(group.ID)
	if err != nil {
		return nil, scheduling.RosterPlan{}, err
	}
	return updated, plan, nil
}

// DeleteGroup soft deletes a group and its members
func (s *GroupService) DeleteGroup(groupID, actorID uint64) error {
	if _, err := s.findOwnedGroup(groupID, actorID); err != nil {
		return err
	}

	if err := s.groupRepo.Delete(groupID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	return nil
}

// GetGroup returns a group with its active members
func (s *GroupService) GetGroup(groupID uint64) (*models.Group, error) {
	group, err := s.findGroup(groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.groupRepo.ListMembers(group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	group.Members = members

	return group, nil
}

// ListGroups returns the groups owned by an employee
func (s *GroupService) ListGroups(ownerID uint64) ([]models.Group, error) {
	groups, err := s.groupRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *GroupService) findGroup(groupID uint64) (*models.Group, error) {
	group, err := s.groupRepo.FindByID(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to find group: %w", err)
	}
	return group, nil
}

func (s *GroupService) findOwnedGroup(groupID, actorID uint64) (*models.Group, error) {
	group, err := s.findGroup(groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != actorID {
		return nil, ErrNotGroupOwner
	}
	return group, nil
}
