// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	gomail "gopkg.in/gomail.v2"

	"github.com/risinglab/rising-backend/internal/domain"
)

// sender is the subset of gomail.Dialer used here, extracted for tests.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer notifies the shop admin about incoming contact form submissions.
type Mailer struct {
	dialer     sender
	from       string
	adminEmail string
	log        *slog.Logger
}

// New creates a mailer backed by an SMTP dialer.
func New(host string, port int, user, password, adminEmail string, logger *slog.Logger) *Mailer {
	return &Mailer{
		dialer:     gomail.NewDialer(host, port, user, password),
		from:       user,
		adminEmail: adminEmail,
		log:        logger.With("adapter", "mailer"),
	}
}

// SendContactNotification emails the admin about a new contact submission.
// The error is returned to the caller; a submission without a notification
// counts as a failed request.
func (m *Mailer) SendContactNotification(ctx context.Context, c *domain.Contact) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.adminEmail)
	msg.SetHeader("Subject", fmt.Sprintf("Contact Form: %s", c.Subject))
	msg.SetBody("text/html", contactBody(c))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.ErrorContext(ctx, "contact notification failed",
			slog.String("contact_id", c.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("send contact notification: %w", err)
	}

	m.log.InfoContext(ctx, "contact notification sent", slog.String("contact_id", c.ID.String()))

	return nil
}

func contactBody(c *domain.Contact) string {
	return fmt.Sprintf(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>`,
		html.EscapeString(c.Name),
		html.EscapeString(c.Email),
		html.EscapeString(c.Subject),
		html.EscapeString(c.Message))
}
