// Package contactform handles inbound contact-form submissions: persist the
// submission, then notify the shop admin by email.
package contactform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/risinglab/rising-backend/internal/domain"
)

// contactRepo defines the contact repository interface needed by the service.
type contactRepo interface {
	Create(ctx context.Context, fields domain.Fields) (*domain.Contact, error)
}

// notifier sends the admin notification for a stored submission.
type notifier interface {
	SendContactNotification(ctx context.Context, c *domain.Contact) error
}

// Service implements the contact-form submission flow.
type Service struct {
	log      *slog.Logger
	contacts contactRepo
	mail     notifier
}

// NewService creates a new contact-form service. mail may be nil when no
// mailer is configured; submissions are then stored without a notification.
func NewService(logger *slog.Logger, contacts contactRepo, mail notifier) *Service {
	return &Service{
		log:      logger.With("service", "contactform"),
		contacts: contacts,
		mail:     mail,
	}
}

// Submit stores a contact submission and emails the admin. A notification
// failure fails the whole request; the stored row stays behind for manual
// follow-up.
func (s *Service) Submit(ctx context.Context, fields domain.Fields) (*domain.Contact, error) {
	contact, err := s.contacts.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "contact submission stored",
		slog.String("contact_id", contact.ID.String()))

	if s.mail != nil {
		if err := s.mail.SendContactNotification(ctx, contact); err != nil {
			return nil, fmt.Errorf("contactform.Submit notify: %w", err)
		}
	}

	return contact, nil
}
