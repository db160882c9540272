package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-scheduler-api/internal/dto"
	apierrors "github.com/yukikurage/meeting-scheduler-api/internal/errors"
	"github.com/yukikurage/meeting-scheduler-api/internal/middleware"
	"github.com/yukikurage/meeting-scheduler-api/internal/services"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

type groupRequest struct {
	Name    string   `json:"name" form:"name" binding:"required"`
	Members []string `json:"members" form:"members"`
}

// ListGroups returns the groups owned by the current employee
func (h *GroupHandler) ListGroups(c *gin.Context) {
	employeeID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	groups, err := h.groupService.ListGroups(employeeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": dto.ToGroupDTOs(groups)})
}

// CreateGroup creates a group owned by the current employee
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	employeeID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req groupRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	group, err := h.groupService.CreateGroup(services.CreateGroupInput{
		OwnerID:      employeeID,
		Name:         req.Name,
		MemberTokens: req.Members,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"group":   dto.ToGroupDTO(*group),
	})
}

// GetGroup returns a group with its members
// Ownership is checked by RequireGroupOwner
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.GetGroup(groupID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupDTO(*group))
}

// UpdateGroup renames a group and reconciles its members
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	employeeID, _ := middleware.GetUserID(c)
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req groupRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}

	group, plan, err := h.groupService.UpdateGroup(services.UpdateGroupInput{
		GroupID:      groupID,
		ActorID:      employeeID,
		Name:         req.Name,
		MemberTokens: req.Members,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"group":   dto.ToGroupDTO(*group),
		"members": dto.RosterChangeDTO{
			Added:    plan.Insert,
			Retained: plan.Retain,
			Removed:  plan.SoftDelete,
		},
	})
}

// DeleteGroup soft deletes a group
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	employeeID, _ := middleware.GetUserID(c)
	groupID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.DeleteGroup(groupID, employeeID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Group deleted successfully",
	})
}
