package events

import (
	"context"
	"fmt"

	"github.com/gdg-garage/events-api/internal/errdef"
	"github.com/gdg-garage/events-api/internal/models"
	"github.com/gdg-garage/events-api/internal/serializer"
	"gorm.io/gorm"
)

// Create stores a new event with one registration per complete attendee,
// all tied to creator, then confirms each attendee by mail.
func (s *Service) Create(ctx context.Context, creator models.User, in serializer.EventInput, attendees []serializer.AttendeeInput) (*models.Event, []models.EventRegistration, error) {
	event, eventErr := serializer.Event(in)
	registrations, attendeesErr := serializer.Attendees(&creator.ID, attendees)
	if err := joinValidation(eventErr, attendeesErr); err != nil {
		return nil, nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		for i := range registrations {
			registrations[i].EventID = event.ID
			if err := tx.Create(&registrations[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.InfoContext(ctx, "event created", "event_id", event.ID, "registrations", len(registrations), "user_id", creator.ID)

	for _, registration := range registrations {
		if err := s.confirm(ctx, event, registration); err != nil {
			return &event, registrations, err
		}
	}

	return &event, registrations, nil
}

// joinValidation merges validation reports; any other error wins as is.
func joinValidation(errs ...error) error {
	fields := map[string][]string{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		v, ok := errdef.AsValidation(err)
		if !ok {
			return err
		}
		for field, messages := range v.Fields {
			fields[field] = append(fields[field], messages...)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return errdef.NewValidation(fields)
}

// Register signs an attendee up for event eventID on behalf of userID, which may be nil.
func (s *Service) Register(ctx context.Context, eventID uint, userID *uint, in serializer.AttendeeInput) (*models.EventRegistration, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	registration, err := serializer.Registration(event.ID, userID, in)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&registration).Error; err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.logger.InfoContext(ctx, "registration created",
		"registration_id", registration.ID,
		"event_id", registration.EventID,
		"name", registration.FullName(),
	)

	if err := s.confirm(ctx, *event, registration); err != nil {
		return &registration, err
	}

	return &registration, nil
}

// Registrations returns event eventID and everyone registered for it.
func (s *Service) Registrations(ctx context.Context, eventID uint) (*models.Event, []models.EventRegistration, error) {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	var registrations []models.EventRegistration
	if err := s.db.WithContext(ctx).Where("event_id = ?", event.ID).Order("id").Find(&registrations).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list registrations of event %d: %w", eventID, err)
	}

	return event, registrations, nil
}

func (s *Service) confirm(ctx context.Context, event models.Event, registration models.EventRegistration) error {
	if err := s.confirmations.NotifyRegistration(ctx, event, registration); err != nil {
		s.logger.ErrorContext(ctx, "failed to send confirmation", "registration_id", registration.ID, "error", err)
		return errdef.NewTransport("confirmation for registration %d not delivered: %w", registration.ID, err)
	}

	if err := s.announcements.NotifyRegistration(ctx, event, registration); err != nil {
		s.logger.WarnContext(ctx, "failed to announce registration", "registration_id", registration.ID, "error", err)
	}

	return nil
}
