package notifier

import (
	"context"
	"fmt"

	"github.com/gdg-garage/events-api/internal/models"
)

// Notifier tells someone about a new registration.
type Notifier interface {
	NotifyRegistration(ctx context.Context, event models.Event, registration models.EventRegistration) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) NotifyRegistration(context.Context, models.Event, models.EventRegistration) error {
	return nil
}

// ConfirmationSubject is the subject line of the mail sent to an attendee.
func ConfirmationSubject(event models.Event) string {
	return fmt.Sprintf("Registration Confirmation for %s", event.Title)
}

// ConfirmationBody is the plain text mail sent to an attendee.
func ConfirmationBody(event models.Event, firstName string) (string, error) {
	startsAt, err := event.StartsAt()
	if err != nil {
		return "", fmt.Errorf("event %d has an invalid schedule: %w", event.ID, err)
	}

	return fmt.Sprintf("Hello %s,\n\n"+
		"You have successfully registered for the event %s.\n\n"+
		"Event Details:\n"+
		"Title: %s\n"+
		"Description: %s\n"+
		"Date and Time: %s at %s\n"+
		"Location: %s\n"+
		"Organizer: %s\n\n"+
		"We look forward to seeing you at the event!\n\n"+
		"Best regards,\n"+
		"The Event Team",
		firstName,
		event.Title,
		event.Title,
		event.Description,
		startsAt.Format("January 02, 2006"),
		startsAt.Format("03:04 PM"),
		event.Location,
		event.Organizer,
	), nil
}
