// Package notify delivers meeting invitations, updates and cancellations to
// attendees. Delivery is best-effort: callers log failures and carry on.
package notify

import (
	"context"
	"log"
	"sort"
	"strings"
)

// Template names understood by every Notifier
const (
	TemplateMeetingInvite    = "meeting_invite"
	TemplateMeetingUpdated   = "meeting_updated"
	TemplateMeetingCancelled = "meeting_cancelled"
)

// Notification is one message to a set of recipients. Fields are rendered
// into the named template. Calendar, when set, is attached as invite.ics.
type Notification struct {
	Recipients []string
	Template   string
	Subject    string
	Fields     map[string]string
	Calendar   []byte
}

// Notifier sends notifications
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log instead of delivering them.
// Used when no mail server is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Send(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + n.Fields[k]
	}

	log.Printf("Notification %s to [%s]: %s (%s)", n.Template, strings.Join(n.Recipients, ", "), n.Subject, strings.Join(pairs, " "))
	return nil
}
