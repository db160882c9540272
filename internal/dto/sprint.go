package dto

import "github.com/yukikurage/meeting-scheduler-api/internal/models"

// SprintDTO represents a sprint in API responses
type SprintDTO struct {
	ID          uint64              `json:"id"`
	ProductID   uint64              `json:"product_id"`
	ProductName string              `json:"product_name,omitempty"`
	Name        string              `json:"name"`
	Status      models.SprintStatus `json:"status"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
}

// UserStoryDTO represents a user story offered for brainstorming
type UserStoryDTO struct {
	ID     uint64 `json:"id"`
	EpicID uint64 `json:"epic_id"`
	Title  string `json:"title"`
}

// BacklogItemDTO represents a backlog item with its user stories
type BacklogItemDTO struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	UserStories []UserStoryDTO `json:"user_stories"`
}

// ToSprintDTO converts a Sprint model to SprintDTO
func ToSprintDTO(sprint models.Sprint) SprintDTO {
	return SprintDTO{
		ID:          sprint.ID,
		ProductID:   sprint.ProductID,
		ProductName: sprint.Product.Name,
		Name:        sprint.Name,
		Status:      sprint.Status,
		StartDate:   sprint.StartDate,
		EndDate:     sprint.EndDate,
	}
}

// ToBacklogItemDTO converts a BacklogItem model to BacklogItemDTO
func ToBacklogItemDTO(item models.BacklogItem) BacklogItemDTO {
	stories := make([]UserStoryDTO, len(item.UserStories))
	for i, s := range item.UserStories {
		stories[i] = UserStoryDTO{ID: s.ID, EpicID: s.EpicID, Title: s.Title}
	}
	return BacklogItemDTO{
		ID:          item.ID,
		Title:       item.Title,
		UserStories: stories,
	}
}
