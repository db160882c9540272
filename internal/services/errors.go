package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNoAttendees          = errors.New("at least one attendee must be selected")
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrMeetingCancelled     = errors.New("meeting has been cancelled")
	ErrMeetingAlreadyLogged = errors.New("meeting time has already been logged")
	ErrNotMeetingHost       = errors.New("only the meeting host can perform this action")
	ErrSprintNotFound       = errors.New("sprint not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrNotGroupOwner        = errors.New("only the group owner can perform this action")
	ErrSlotBusy             = errors.New("another request is scheduling the same attendees, try again")
)

// ValidationError reports missing or malformed fields. Nothing has been
// written when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records a field error, keeping the first message per field
func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// errOrNil returns e when at least one field failed
func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ConflictError is a soft block: the listed attendees are already booked.
// Retrying with conflicts acknowledged proceeds with the write.
type ConflictError struct {
	Conflicts []string
}

func (e *ConflictError) Error() string {
	return "scheduling conflict: " + strings.Join(e.Conflicts, ", ")
}
