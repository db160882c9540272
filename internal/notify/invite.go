package notify

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//meeting-scheduler-api//EN"

// InviteEvent is one occurrence in a calendar invite
type InviteEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// Invite describes the calendar attached to a notification
type Invite struct {
	Organizer     string
	OrganizerName string
	Attendees     []string
	Events        []InviteEvent
	Cancelled     bool
	Sequence      int
}

// EventUID builds a stable UID for one meeting occurrence, so updates and
// cancellations replace the entry created by the original invite
func EventUID(meetingID uint64, host string) string {
	return fmt.Sprintf("meeting-%d@%s", meetingID, host)
}

// BuildInvite serializes inv as an iCalendar document. Cancelled invites use
// METHOD:CANCEL and mark every event as cancelled.
func BuildInvite(inv Invite, now time.Time) []byte {
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	if inv.Cancelled {
		cal.SetMethod(ical.MethodCancel)
	} else {
		cal.SetMethod(ical.MethodRequest)
	}

	for _, ev := range inv.Events {
		event := cal.AddEvent(ev.UID)
		event.SetDtStampTime(now)
		event.SetStartAt(ev.Start)
		event.SetEndAt(ev.End)
		event.SetSummary(ev.Summary)
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			event.SetLocation(ev.Location)
		}
		event.SetProperty(ical.ComponentPropertySequence, fmt.Sprint(inv.Sequence))
		if inv.Organizer != "" {
			event.SetOrganizer(inv.Organizer, ical.WithCN(inv.OrganizerName))
		}
		for _, attendee := range inv.Attendees {
			event.AddAttendee(attendee,
				ical.CalendarUserTypeIndividual,
				ical.ParticipationStatusNeedsAction,
				ical.ParticipationRoleReqParticipant,
				ical.WithRSVP(true),
			)
		}
		if inv.Cancelled {
			event.SetStatus(ical.ObjectStatusCancelled)
		} else {
			event.SetStatus(ical.ObjectStatusConfirmed)
		}
	}

	return []byte(cal.Serialize())
}
