package services

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/yukikurage/meeting-scheduler-api/internal/models"
	"github.com/yukikurage/meeting-scheduler-api/internal/notify"
	"github.com/yukikurage/meeting-scheduler-api/internal/repository"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
)

const (
	templateInvite    = notify.TemplateMeetingInvite
	templateUpdated   = notify.TemplateMeetingUpdated
	templateCancelled = notify.TemplateMeetingCancelled
)

var subjectPrefix = map[string]string{
	templateInvite:    "Invitation",
	templateUpdated:   "Updated",
	templateCancelled: "Cancelled",
}

// notification is a pending message about one or more occurrences
type notification struct {
	template  string
	meetings  []models.Meeting
	recipient []uint64
	actorID   uint64
	reason    string
}

// dispatcher prepares notification payloads and hands them to a Notifier.
// Failures are logged; the meeting write has already been committed.
type dispatcher struct {
	notifier  notify.Notifier
	employees repository.EmployeeRepository
	timeout   time.Duration
	domain    string
	now       func() time.Time
}

func (d *dispatcher) send(ctx context.Context, n notification) {
	if d.notifier == nil || len(n.meetings) == 0 || len(n.recipient) == 0 {
		return
	}

	// Delivery outlives a client that disconnects after the commit
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	msg, err := d.build(n)
	if err != nil {
		log.Printf("Failed to prepare %s notification for meeting %d: %v", n.template, n.meetings[0].ID, err)
		return
	}
	if len(msg.Recipients) == 0 {
		return
	}

	if err := d.notifier.Send(ctx, msg); err != nil {
		log.Printf("Failed to send %s notification for meeting %d: %v", n.template, n.meetings[0].ID, err)
	}
}

func (d *dispatcher) build(n notification) (notify.Notification, error) {
	wanted := make(map[uint64]struct{}, len(n.recipient))
	for _, id := range n.recipient {
		wanted[id] = struct{}{}
	}

	employees, err := d.employees.FindByIDs(scheduling.Unique(append(append([]uint64{}, n.recipient...), n.actorID)))
	if err != nil {
		return notify.Notification{}, err
	}

	var organizer models.Employee
	recipients := make([]string, 0, len(employees))
	for _, e := range employees {
		if e.ID == n.actorID {
			organizer = e
		}
		if _, ok := wanted[e.ID]; ok && e.Email != "" {
			recipients = append(recipients, e.Email)
		}
	}

	first := n.meetings[0]
	last := n.meetings[len(n.meetings)-1]

	date := first.StartDate
	if last.StartDate != first.StartDate {
		date = first.StartDate + " to " + last.StartDate
	}

	fields := map[string]string{
		"title":       first.Title,
		"description": first.Description,
		"link":        first.Link,
		"date":        date,
		"start_time":  scheduling.To12Hour(first.StartTime),
		"end_time":    scheduling.To12Hour(first.EndTime),
		"organizer":   organizer.DisplayName(),
		"reason":      n.reason,
	}
	if len(n.meetings) > 1 {
		fields["occurrences"] = strconv.Itoa(len(n.meetings))
	}

	events := make([]notify.InviteEvent, 0, len(n.meetings))
	for _, m := range n.meetings {
		start, err := scheduling.At(m.StartDate, m.StartTime)
		if err != nil {
			return notify.Notification{}, err
		}
		end, err := scheduling.At(m.EndDate, m.EndTime)
		if err != nil {
			return notify.Notification{}, err
		}
		events = append(events, notify.InviteEvent{
			UID:         notify.EventUID(m.ID, d.domain),
			Summary:     m.Title,
			Description: m.Description,
			Location:    m.Link,
			Start:       start,
			End:         end,
		})
	}

	calendar := notify.BuildInvite(notify.Invite{
		Organizer:     organizer.Email,
		OrganizerName: organizer.DisplayName(),
		Attendees:     recipients,
		Events:        events,
		Cancelled:     n.template == templateCancelled,
		Sequence:      first.Sequence,
	}, d.now())

	return notify.Notification{
		Recipients: recipients,
		Template:   n.template,
		Subject:    subjectPrefix[n.template] + ": " + first.Title,
		Fields:     fields,
		Calendar:   calendar,
	}, nil
}
