// Package events lists, purges and edits events and runs the registration workflow.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdg-garage/events-api/internal/errdef"
	"github.com/gdg-garage/events-api/internal/models"
	"github.com/gdg-garage/events-api/internal/notifier"
	"github.com/gdg-garage/events-api/internal/serializer"
	"gorm.io/gorm"
)

type Service struct {
	db            *gorm.DB
	confirmations notifier.Notifier
	announcements notifier.Notifier
	logger        *slog.Logger
}

// NewService wires the service. Confirmations must be delivered; announcements
// are best effort and may be notifier.Nop.
func NewService(db *gorm.DB, confirmations, announcements notifier.Notifier, logger *slog.Logger) *Service {
	return &Service{
		db:            db,
		confirmations: confirmations,
		announcements: announcements,
		logger:        logger,
	}
}

// Filter narrows a listing. Fields hold raw query values; Apply gates all of them.
type Filter struct {
	Apply    bool
	Date     string
	Time     string
	Location string
	Search   string
}

// List purges events dated before now's date and returns what is left,
// narrowed by f when f.Apply is set.
func (s *Service) List(ctx context.Context, now time.Time, f Filter) ([]models.Event, error) {
	if err := s.Purge(ctx, now); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Order("id")

	if f.Apply {
		var err error
		if query, err = applyFilter(query, f); err != nil {
			return nil, err
		}
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func applyFilter(query *gorm.DB, f Filter) (*gorm.DB, error) {
	if f.Date != "" {
		date, err := serializer.ParseDate(f.Date)
		if err != nil {
			return nil, errdef.NewBadRequest("invalid date filter %q, use YYYY-MM-DD", f.Date)
		}
		query = query.Where("date = ?", date)
	}

	if f.Time != "" {
		clock, err := serializer.ParseTime(f.Time)
		if err != nil {
			return nil, errdef.NewBadRequest("invalid time filter %q, use HH:MM", f.Time)
		}
		query = query.Where("time = ?", clock)
	}

	if f.Location != "" {
		query = query.Where(`LOWER(location) LIKE ? ESCAPE '\'`, contains(f.Location))
	}

	if f.Search != "" {
		pattern := contains(f.Search)
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	return query, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds a case-insensitive substring LIKE pattern.
func contains(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// Purge deletes every event dated strictly before now's date along with its registrations.
func (s *Service) Purge(ctx context.Context, now time.Time) error {
	today := now.Format(models.DateLayout)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Event{}).Where("date < ?", today).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := deleteEvents(tx, ids); err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "purged past events", "count", len(ids), "before", today)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge past events: %w", err)
	}
	return nil
}

func deleteEvents(tx *gorm.DB, ids []uint) error {
	if err := tx.Where("event_id IN ?", ids).Delete(&models.EventRegistration{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Event{}).Error
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Event, error) {
	return find(s.db.WithContext(ctx), id)
}

func find(db *gorm.DB, id uint) (*models.Event, error) {
	var event models.Event
	if err := db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errdef.NewNotFound("event %d not found", id)
		}
		return nil, fmt.Errorf("failed to find event %d: %w", id, err)
	}
	return &event, nil
}

// Update replaces every field of event id with in.
func (s *Service) Update(ctx context.Context, id uint, in serializer.EventInput) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := serializer.Event(in)
	if err != nil {
		return nil, err
	}

	event.Title = fields.Title
	event.Description = fields.Description
	event.Date = fields.Date
	event.Time = fields.Time
	event.Location = fields.Location
	event.Organizer = fields.Organizer

	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return nil, fmt.Errorf("failed to update event %d: %w", id, err)
	}
	return event, nil
}

// Delete removes event id and its registrations.
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := find(tx, id); err != nil {
			return err
		}
		if err := deleteEvents(tx, []uint{id}); err != nil {
			return fmt.Errorf("failed to delete event %d: %w", id, err)
		}
		return nil
	})
}
