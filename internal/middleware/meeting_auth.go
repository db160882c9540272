package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-scheduler-api/internal/database"
	apierrors "github.com/yukikurage/meeting-scheduler-api/internal/errors"
	"github.com/yukikurage/meeting-scheduler-api/internal/models"
)

// ContextKeyMeeting holds the meeting loaded by RequireMeetingAccess
const ContextKeyMeeting = "meeting"

// RequireMeetingAccess checks that the user hosts or attends the meeting.
// Cancelled meetings stay visible to their roster.
func RequireMeetingAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		meetingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid meeting ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var meeting models.Meeting
		if err := database.GetDB().First(&meeting, meetingID).Error; err != nil {
			apierrors.NotFound(c, "Meeting not found")
			c.Abort()
			return
		}

		if meeting.CreatorID != userID {
			var member models.MeetingMember
			err = database.GetDB().
				Where("meeting_id = ? AND employee_id = ?", meetingID, userID).
				First(&member).Error
			if err != nil {
				// Non-members see the same 404 as a missing meeting
				apierrors.NotFound(c, "Meeting not found")
				c.Abort()
				return
			}
		}

		c.Set(ContextKeyMeeting, meeting)
		c.Next()
	}
}

// GetMeeting returns the meeting stored by RequireMeetingAccess
func GetMeeting(c *gin.Context) (models.Meeting, bool) {
	value, exists := c.Get(ContextKeyMeeting)
	if !exists {
		return models.Meeting{}, false
	}
	meeting, ok := value.(models.Meeting)
	return meeting, ok
}
