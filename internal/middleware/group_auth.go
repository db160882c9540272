package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-scheduler-api/internal/database"
	apierrors "github.com/yukikurage/meeting-scheduler-api/internal/errors"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
)

// RequireGroupOwner checks that the group exists and belongs to the user
func RequireGroupOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid group ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var group models.Group
		if err := database.GetDB().First(&group, groupID).Error; err != nil {
			apierrors.NotFound(c, "Group not found")
			c.Abort()
			return
		}

		// Groups are private to their owner
		if group.OwnerID != userID {
			apierrors.NotFound(c, "Group not found")
			c.Abort()
			return
		}

		c.Set("group", group)
		c.Next()
	}
}
