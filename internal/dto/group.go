package dto

import (
	"time"

	"github.com/yukikurage/meeting-scheduler-api/internal/models"
)

// GroupDTO represents an attendee group in API responses
type GroupDTO struct {
	ID        uint64        `json:"id"`
	Name      string        `json:"name"`
	OwnerID   uint64        `json:"owner_id"`
	CreatedAt time.Time     `json:"created_at"`
	Members   []EmployeeDTO `json:"members,omitempty"`
}

// ToGroupDTO converts a Group model to GroupDTO
func ToGroupDTO(group models.Group) GroupDTO {
	dto := GroupDTO{
		ID:        group.ID,
		Name:      group.Name,
		OwnerID:   group.OwnerID,
		CreatedAt: group.CreatedAt,
	}

	if len(group.Members) > 0 {
		dto.Members = make([]EmployeeDTO, len(group.Members))
		for i, member := range group.Members {
			dto.Members[i] = ToEmployeeDTO(member.Employee)
		}
	}

	return dto
}

// ToGroupDTOs converts a slice of groups
func ToGroupDTOs(groups []models.Group) []GroupDTO {
	out := make([]GroupDTO, len(groups))
	for i, g := range groups {
		out[i] = ToGroupDTO(g)
	}
	return out
}
