package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/meeting-scheduler-api/internal/constants"
)

// ConflictAcknowledged reports whether the previous submission in this
// session was answered with a scheduling conflict
func ConflictAcknowledged(c *gin.Context) bool {
	ack, _ := sessions.Default(c).Get(constants.SessionKeyConflictAck).(bool)
	return ack
}

// MarkConflictReported remembers that a conflict was shown, so the next
// submission goes through
func MarkConflictReported(c *gin.Context) error {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyConflictAck, true)
	return session.Save()
}

// ClearConflictAck forgets an acknowledged conflict after a successful write
func ClearConflictAck(c *gin.Context) error {
	session := sessions.Default(c)
	if session.Get(constants.SessionKeyConflictAck) == nil {
		return nil
	}
	session.Delete(constants.SessionKeyConflictAck)
	return session.Save()
}
