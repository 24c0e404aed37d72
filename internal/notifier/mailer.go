package notifier

import (
	"context"
	"fmt"

	"github.com/gdg-garage/events-api/internal/models"
	"github.com/go-mail/mail"
)

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// Mailer sends registration confirmations to the attendee's address.
type Mailer struct {
	dialer dialer
	from   string
}

func NewMailer(dialer dialer, from string) *Mailer {
	return &Mailer{dialer: dialer, from: from}
}

func (m *Mailer) NotifyRegistration(_ context.Context, event models.Event, registration models.EventRegistration) error {
	body, err := ConfirmationBody(event, registration.FirstName)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", registration.Email)
	msg.SetHeader("Subject", ConfirmationSubject(event))
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation to %s: %w", registration.Email, err)
	}
	return nil
}
