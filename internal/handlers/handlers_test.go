package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gdg-garage/events-api/internal/auth"
	"github.com/gdg-garage/events-api/internal/config"
	"github.com/gdg-garage/events-api/internal/database"
	"github.com/gdg-garage/events-api/internal/events"
	"github.com/gdg-garage/events-api/internal/models"
	"github.com/gdg-garage/events-api/internal/notifier"
	"github.com/go-chi/chi/v5"
	"github.com/go-mail/mail"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeDialer struct {
	sent []*mail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*mail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

type testServer struct {
	t           *testing.T
	db          *gorm.DB
	router      *chi.Mux
	authHandler *auth.AuthHandler
	dialer      *fakeDialer
	now         time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{JWTSecret: "test-secret", StaffUsernames: []string{"boss"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := &testServer{
		t:      t,
		db:     db,
		router: chi.NewRouter(),
		dialer: &fakeDialer{},
		now:    time.Date(2099, time.January, 1, 9, 0, 0, 0, time.Local),
	}

	s.authHandler = auth.NewAuthHandler(cfg, db)
	service := events.NewService(db, notifier.NewMailer(s.dialer, "events@example.com"), notifier.Nop{}, logger)
	eventHandler := NewEventHandler(service, s.authHandler, func() time.Time { return s.now })
	registrationHandler := NewRegistrationHandler(service, s.authHandler)
	RegisterRoutes(s.router, cfg, s.authHandler, eventHandler, registrationHandler)

	return s
}

// do sends body as JSON and returns the recorder.
func (s *testServer) do(method, target string, body any, cookie string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// session registers an account and logs it in, returning the Cookie header value.
func (s *testServer) session(username string) string {
	s.t.Helper()

	account := map[string]string{"username": username, "password": "secret", "email": username + "@example.com"}
	rr := s.do(http.MethodPost, "/register", account, "")
	require.Equal(s.t, http.StatusCreated, rr.Code, rr.Body.String())

	return s.login(username)
}

// login returns the Cookie header value of a fresh session for an existing account.
func (s *testServer) login(username string) string {
	s.t.Helper()

	rr := s.do(http.MethodPost, "/", map[string]string{"username": username, "password": "secret"}, "")
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())

	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c.Name + "=" + c.Value
		}
	}
	s.t.Fatal("login did not set a session cookie")
	return ""
}

func (s *testServer) createEvent(event models.Event) models.Event {
	s.t.Helper()

	if event.Description == "" {
		event.Description = "About " + event.Title
	}
	if event.Time == "" {
		event.Time = "10:00:00"
	}
	if event.Organizer == "" {
		event.Organizer = "Ops"
	}
	if event.Location == "" {
		event.Location = "HQ"
	}
	require.NoError(s.t, s.db.Create(&event).Error)
	return event
}

func (s *testServer) count(model any) int64 {
	s.t.Helper()

	var n int64
	require.NoError(s.t, s.db.Model(model).Count(&n).Error)
	return n
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

var errSMTP = errors.New("dial tcp 127.0.0.1:25: connection refused")
