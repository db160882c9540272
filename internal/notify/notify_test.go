package notify

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvite(cancelled bool) Invite {
	start := time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
	return Invite{
		Organizer:     "host@example.com",
		OrganizerName: "Host Person",
		Attendees:     []string{"asha@example.com", "bala@example.com"},
		Cancelled:     cancelled,
		Events: []InviteEvent{
			{UID: EventUID(1, "example.com"), Summary: "Stand-up", Start: start, End: start.Add(15 * time.Minute)},
			{UID: EventUID(2, "example.com"), Summary: "Stand-up", Start: start.AddDate(0, 0, 1), End: start.AddDate(0, 0, 1).Add(15 * time.Minute)},
		},
	}
}

func TestBuildInvite_Request(t *testing.T) {
	data := BuildInvite(sampleInvite(false), time.Now())

	assert.Contains(t, string(data), "METHOD:REQUEST")

	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "meeting-1@example.com", events[0].Id())
	assert.Equal(t, "Stand-up", events[0].GetProperty(ical.ComponentPropertySummary).Value)
	assert.Len(t, events[0].Attendees(), 2)
	assert.Equal(t, string(ical.ObjectStatusConfirmed), events[1].GetProperty(ical.ComponentPropertyStatus).Value)
}

func TestBuildInvite_Cancel(t *testing.T) {
	data := string(BuildInvite(sampleInvite(true), time.Now()))

	assert.Contains(t, data, "METHOD:CANCEL")
	assert.Equal(t, 2, strings.Count(data, "STATUS:CANCELLED"))
}

func TestSMTPNotifier_BuildsMultipartMessage(t *testing.T) {
	var sentTo []string
	var sent []byte

	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "25", From: "meetings@example.com"})
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		assert.Equal(t, "mail.local:25", addr)
		assert.Equal(t, "meetings@example.com", from)
		sentTo = to
		sent = msg
		return nil
	}

	err := n.Send(context.Background(), Notification{
		Recipients: []string{"asha@example.com"},
		Template:   TemplateMeetingCancelled,
		Subject:    "Cancelled: Planning",
		Fields: map[string]string{
			"title":      "Planning",
			"date":       "2024-07-01",
			"start_time": "10:00 AM",
			"reason":     "Client unavailable",
		},
		Calendar: BuildInvite(sampleInvite(true), time.Now()),
	})
	require.NoError(t, err)

	body := string(sent)
	assert.Equal(t, []string{"asha@example.com"}, sentTo)
	assert.Contains(t, body, "Subject: Cancelled: Planning")
	assert.Contains(t, body, `"Planning" on 2024-07-01 at 10:00 AM has been cancelled.`)
	assert.Contains(t, body, "Reason: Client unavailable")
	assert.Contains(t, body, "method=CANCEL")
	assert.Contains(t, body, `filename="invite.ics"`)
}

func TestSMTPNotifier_Errors(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "25"})

	err := n.Send(context.Background(), Notification{Template: TemplateMeetingInvite})
	assert.ErrorIs(t, err, ErrNoRecipients)

	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}
	err = n.Send(context.Background(), Notification{
		Recipients: []string{"a@example.com"},
		Template:   TemplateMeetingInvite,
		Fields:     map[string]string{"title": "Sync"},
	})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPNotifier_RespectsContext(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: "25"})
	block := make(chan struct{})
	defer close(block)
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		<-block
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := n.Send(ctx, Notification{
		Recipients: []string{"a@example.com"},
		Template:   TemplateMeetingInvite,
		Fields:     map[string]string{"title": "Sync"},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogNotifier_Send(t *testing.T) {
	n := NewLogNotifier()
	assert.NoError(t, n.Send(context.Background(), Notification{Template: TemplateMeetingInvite}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, Notification{}), context.Canceled)
}
