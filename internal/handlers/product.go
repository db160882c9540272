package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-scheduler-api/internal/dto"
	"github.com/yukikurage/meeting-scheduler-api/internal/services"
)

// ProductHandler serves the sprint and backlog lookups behind the
// scheduling form
type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GetSprint returns a sprint with its dates
func (h *ProductHandler) GetSprint(c *gin.Context) {
	sprintID, ok := paramID(c, "id")
	if !ok {
		return
	}

	sprint, err := h.productService.GetSprint(sprintID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSprintDTO(*sprint))
}

// ListSprintMembers returns the sprint team
func (h *ProductHandler) ListSprintMembers(c *gin.Context) {
	sprintID, ok := paramID(c, "id")
	if !ok {
		return
	}

	members, err := h.productService.ListSprintMembers(sprintID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	employees := make([]dto.EmployeeDTO, len(members))
	for i, m := range members {
		employees[i] = dto.ToEmployeeDTO(m.Employee)
	}

	c.JSON(http.StatusOK, gin.H{"members": employees})
}

// ListSprints returns the sprints of a product
func (h *ProductHandler) ListSprints(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	sprints, err := h.productService.ListSprints(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]dto.SprintDTO, len(sprints))
	for i, s := range sprints {
		out[i] = dto.ToSprintDTO(s)
	}

	c.JSON(http.StatusOK, gin.H{"sprints": out})
}

// ListProductMembers returns everyone on any of the product's sprint teams
func (h *ProductHandler) ListProductMembers(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	members, err := h.productService.ListProductMembers(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	employees := make([]dto.EmployeeDTO, len(members))
	for i, m := range members {
		employees[i] = dto.ToEmployeeDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{"members": employees})
}

// ListBacklog returns a product's backlog items with their user stories
func (h *ProductHandler) ListBacklog(c *gin.Context) {
	productID, ok := paramID(c, "id")
	if !ok {
		return
	}

	items, err := h.productService.ListBacklog(productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]dto.BacklogItemDTO, len(items))
	for i, item := range items {
		out[i] = dto.ToBacklogItemDTO(item)
	}

	c.JSON(http.StatusOK, gin.H{"backlog": out})
}
