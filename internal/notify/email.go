package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

var errNoRecipients = errors.New("notify: email has no recipients")

// EmailSender delivers a single email.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one outgoing studio email. HTML is optional.
type EmailMessage struct {
	To       []string
	Subject  string
	Text     string
	HTML     string
	Category string
}

func (m EmailMessage) html() string {
	if m.HTML != "" {
		return m.HTML
	}
	return m.Text
}

// Mailbox is a display name plus address.
type Mailbox struct {
	Name  string
	Email string
}

const defaultFromName = "Ink Studio"

func (m Mailbox) withDefaults() Mailbox {
	m.Email = strings.TrimSpace(m.Email)
	if strings.TrimSpace(m.Name) == "" {
		m.Name = defaultFromName
	}
	return m
}

func (m Mailbox) String() string {
	return fmt.Sprintf("%s <%s>", m.Name, m.Email)
}

// ParseRecipients splits a comma separated address list, dropping blanks.
func ParseRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// SendGridSender sends through the SendGrid v3 API.
type SendGridSender struct {
	send   func(ctx context.Context, email *mail.SGMailV3) (status int, body string, err error)
	from   Mailbox
	logger *logging.Logger
}

// NewSendGridSender returns nil when apiKey is empty.
func NewSendGridSender(apiKey string, from Mailbox, logger *logging.Logger) *SendGridSender {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	client := sendgrid.NewSendClient(apiKey)
	return newSendGridSender(func(ctx context.Context, email *mail.SGMailV3) (int, string, error) {
		resp, err := client.SendWithContext(ctx, email)
		if err != nil {
			return 0, "", err
		}
		return resp.StatusCode, resp.Body, nil
	}, from, logger)
}

func newSendGridSender(send func(context.Context, *mail.SGMailV3) (int, string, error), from Mailbox, logger *logging.Logger) *SendGridSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{send: send, from: from.withDefaults(), logger: logger}
}

// buildSendGridMail puts every recipient on one personalization so the studio
// inbox sees a single thread.
func buildSendGridMail(from Mailbox, msg EmailMessage) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(from.Name, from.Email))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail("", to))
	}
	m.AddPersonalizations(p)

	m.AddContent(mail.NewContent("text/plain", msg.Text), mail.NewContent("text/html", msg.html()))
	if msg.Category != "" {
		m.AddCategories(msg.Category)
	}
	return m
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.send == nil {
		return fmt.Errorf("notify: sendgrid client not configured")
	}
	if len(msg.To) == 0 {
		return errNoRecipients
	}

	status, body, err := s.send(ctx, buildSendGridMail(s.from, msg))
	if err != nil {
		return fmt.Errorf("notify: sendgrid send: %w", err)
	}
	if status >= 400 {
		s.logger.Warn("sendgrid rejected email", "status", status, "body", body, "recipients", len(msg.To))
		return fmt.Errorf("notify: sendgrid returned status %d", status)
	}

	s.logger.Debug("email sent via sendgrid", "recipients", len(msg.To), "subject", msg.Subject, "status", status)
	return nil
}

// StubEmailSender only logs. Used when no provider is configured.
type StubEmailSender struct {
	logger *logging.Logger
}

func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if len(msg.To) == 0 {
		return errNoRecipients
	}
	s.logger.Info("email not sent, no provider configured", "to", strings.Join(msg.To, ","), "subject", msg.Subject)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
