package constants

// Session and context keys
const (
	SessionCookieName     = "meeting_session"
	ContextKeyUserID      = "user_id"
	SessionKeyConflictAck = "conflict_ack"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Authentication
const (
	MinPasswordLength = 8
)

// Tracker defaults for issues created to hold meeting time logs
const (
	IssuePriorityNormal = 2
	IssueStatusNew      = 1
	IssueTrackerMeeting = 15
)

// Slot lock key prefix
const (
	SlotLockPrefix = "meeting-slot"
)
