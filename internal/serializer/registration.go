package serializer

import (
	"fmt"

	"github.com/gdg-garage/events-api/internal/errdef"
	"github.com/gdg-garage/events-api/internal/models"
)

// AttendeeInput holds the raw fields of one attendee.
type AttendeeInput struct {
	FirstName string `json:"first_name,omitempty" validate:"required,max=100" doc:"First name of the attendee"`
	LastName  string `json:"last_name,omitempty" validate:"required,max=100" doc:"Last name of the attendee"`
	Email     string `json:"email,omitempty" validate:"required,email,max=254" doc:"Where the confirmation is sent"`
}

// Complete reports whether every field of the attendee was filled in.
func (a AttendeeInput) Complete() bool {
	trim(&a.FirstName, &a.LastName, &a.Email)
	return a.FirstName != "" && a.LastName != "" && a.Email != ""
}

type registrationInput struct {
	Event uint  `json:"event" validate:"required"`
	User  *uint `json:"user"`
	AttendeeInput
}

// Registration validates an attendee signing up for eventID. userID may be nil.
func Registration(eventID uint, userID *uint, in AttendeeInput) (models.EventRegistration, error) {
	trim(&in.FirstName, &in.LastName, &in.Email)

	r, err := check(registrationInput{Event: eventID, User: userID, AttendeeInput: in})
	if err != nil {
		return models.EventRegistration{}, err
	}
	if !r.empty() {
		return models.EventRegistration{}, errdef.NewValidation(r)
	}

	return models.EventRegistration{
		EventID:   eventID,
		UserID:    userID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}, nil
}

// Attendees validates the complete entries of attendees and drops the partial
// ones. Errors are keyed by position, e.g. attendees[2].email.
func Attendees(userID *uint, attendees []AttendeeInput) ([]models.EventRegistration, error) {
	var registrations []models.EventRegistration
	all := report{}

	for i, a := range attendees {
		if !a.Complete() {
			continue
		}
		trim(&a.FirstName, &a.LastName, &a.Email)

		r, err := check(a)
		if err != nil {
			return nil, err
		}
		if !r.empty() {
			all.merge(fmt.Sprintf("attendees[%d].", i), r)
			continue
		}

		registrations = append(registrations, models.EventRegistration{
			UserID:    userID,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
		})
	}

	if !all.empty() {
		return nil, errdef.NewValidation(all)
	}
	return registrations, nil
}
