package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	"text/template"
	"time"
)

var ErrNoRecipients = errors.New("notification has no recipients")

var mailTemplates = template.Must(template.New("mail").Option("missingkey=zero").Parse(`
{{define "meeting_invite"}}Hello,

{{.organizer}} invited you to "{{.title}}".

When: {{.date}}, {{.start_time}} - {{.end_time}}
{{if .occurrences}}Occurrences: {{.occurrences}}
{{end}}{{if .link}}Join: {{.link}}
{{end}}{{if .description}}
{{.description}}
{{end}}{{end}}
{{define "meeting_updated"}}Hello,

"{{.title}}" has been updated by {{.organizer}}.

When: {{.date}}, {{.start_time}} - {{.end_time}}
{{if .link}}Join: {{.link}}
{{end}}{{end}}
{{define "meeting_cancelled"}}Hello,

"{{.title}}" on {{.date}} at {{.start_time}} has been cancelled.
{{if .reason}}
Reason: {{.reason}}
{{end}}{{end}}
`))

// SMTPConfig holds the mail server settings
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPNotifier renders notifications with text/template and sends them as
// multipart messages over SMTP
type SMTPNotifier struct {
	cfg  SMTPConfig
	auth smtp.Auth
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPNotifier{
		cfg:  cfg,
		auth: auth,
		send: smtp.SendMail,
	}
}

// Send delivers n. net/smtp has no context support, so the send runs in a
// goroutine and Send returns when ctx is done.
func (s *SMTPNotifier) Send(ctx context.Context, n Notification) error {
	if len(n.Recipients) == 0 {
		return ErrNoRecipients
	}

	msg, err := s.buildMessage(n)
	if err != nil {
		return err
	}

	addr := s.cfg.Host + ":" + s.cfg.Port
	done := make(chan error, 1)
	go func() {
		done <- s.send(addr, s.auth, s.cfg.From, n.Recipients, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail delivery abandoned: %w", ctx.Err())
	}
}

func (s *SMTPNotifier) buildMessage(n Notification) ([]byte, error) {
	var body bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&body, n.Template, n.Fields); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", n.Template, err)
	}

	var msg bytes.Buffer
	writer := multipart.NewWriter(&msg)

	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(n.Recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", n.Subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", writer.Boundary())

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write(bytes.TrimLeft(body.Bytes(), "\n")); err != nil {
		return nil, err
	}

	if len(n.Calendar) > 0 {
		method := "REQUEST"
		if n.Template == TemplateMeetingCancelled {
			method = "CANCEL"
		}
		calPart, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":        {"text/calendar; charset=utf-8; method=" + method},
			"Content-Disposition": {`attachment; filename="invite.ics"`},
		})
		if err != nil {
			return nil, err
		}
		if _, err := calPart.Write(n.Calendar); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return msg.Bytes(), nil
}
