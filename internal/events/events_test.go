package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/gdg-garage/events-api/internal/database"
	"github.com/gdg-garage/events-api/internal/models"
	"github.com/gdg-garage/events-api/internal/notifier"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type sent struct {
	event        models.Event
	registration models.EventRegistration
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (n *fakeNotifier) NotifyRegistration(_ context.Context, event models.Event, registration models.EventRegistration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sent{event: event, registration: registration})
	return nil
}

func newService(t *testing.T) (*Service, *gorm.DB, *fakeNotifier) {
	t.Helper()

	db := setupDB(t)
	mail := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(db, mail, notifier.Nop{}, logger), db, mail
}

func createEvent(t *testing.T, db *gorm.DB, event models.Event) models.Event {
	t.Helper()

	if event.Description == "" {
		event.Description = "Description of " + event.Title
	}
	if event.Time == "" {
		event.Time = "10:00:00"
	}
	if event.Location == "" {
		event.Location = "HQ"
	}
	if event.Organizer == "" {
		event.Organizer = "Ops"
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

var errSMTP = errors.New("dial tcp 127.0.0.1:25: connection refused")
