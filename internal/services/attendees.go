package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"gorm.io/gorm"
)

// attendeeResolver turns free-form selections into canonical employee IDs.
// Nothing past this point handles names or emails.
type attendeeResolver struct {
	employeeRepo repository.EmployeeRepository
	groupRepo    repository.GroupRepository
}

// resolve returns the union of the employees named by tokens and the active
// members of the given groups, in selection order. Unknown tokens are a
// ValidationError on field; an empty union is ErrNoAttendees. Every group must
// exist and be owned by actorID, otherwise ErrGroupNotFound.
func (r attendeeResolver) resolve(field string, actorID uint64, tokens []string, groupIDs []uint64) ([]uint64, error) {
	employees, unresolved, err := r.employeeRepo.ResolveTokens(tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attendees: %w", err)
	}
	if len(unresolved) > 0 {
		return nil, &ValidationError{Fields: map[string]string{
			field: "unknown attendees: " + strings.Join(unresolved, ", "),
		}}
	}

	ids := make([]uint64, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}

	if len(groupIDs) > 0 {
		members, err := r.groupMembers(actorID, scheduling.Unique(groupIDs))
		if err != nil {
			return nil, err
		}
		ids = append(ids, members...)
	}

	ids = scheduling.Unique(ids)
	if len(ids) == 0 {
		return nil, ErrNoAttendees
	}
	return ids, nil
}

// groupMembers expands groups owned by actorID. Groups are private, so a
// group owned by someone else is reported the same way as a missing one.
func (r attendeeResolver) groupMembers(actorID uint64, groupIDs []uint64) ([]uint64, error) {
	if r.groupRepo == nil {
		return nil, ErrGroupNotFound
	}

	for _, id := range groupIDs {
		group, err := r.groupRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("group %d: %w", id, ErrGroupNotFound)
			}
			return nil, fmt.Errorf("failed to find group: %w", err)
		}
		if group.OwnerID != actorID {
			return nil, fmt.Errorf("group %d: %w", id, ErrGroupNotFound)
		}
	}

	members, err := r.groupRepo.ActiveMemberIDs(groupIDs...)
	if err != nil {
		return nil, fmt.Errorf("failed to expand groups: %w", err)
	}
	return members, nil
}
