package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gdg-garage/events-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listBody struct {
	Events []models.Event `json:"events"`
}

type registrationsBody struct {
	Event         models.Event               `json:"event"`
	Registrations []models.EventRegistration `json:"registrations"`
}

type registrationBody struct {
	Message      string                   `json:"message"`
	Registration models.EventRegistration `json:"registration"`
}

type errorBody struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Message  string `json:"message"`
		Location string `json:"location"`
	} `json:"errors"`
	Registrations []models.EventRegistration `json:"registrations"`
}

func launch() map[string]any {
	return map[string]any{
		"title":       "Launch",
		"description": "Product launch",
		"date":        "2099-06-01",
		"time":        "18:30",
		"location":    "HQ",
		"organizer":   "Ops",
	}
}

func eventPath(id uint, suffix string) string {
	return "/events/" + strconv.FormatUint(uint64(id), 10) + suffix
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestListEvents(t *testing.T) {
	s := newTestServer(t)
	s.createEvent(models.Event{Title: "Yesterday", Date: "2098-12-31"})
	meetup := s.createEvent(models.Event{Title: "Go meetup", Date: "2099-03-01", Location: "Main Hall"})
	party := s.createEvent(models.Event{Title: "Party", Date: "2099-03-02", Location: "Roof"})

	t.Run("anonymous, purges past events", func(t *testing.T) {
		rr := s.do(http.MethodGet, "/events", nil, "")

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decode[listBody](t, rr)
		require.Len(t, body.Events, 2)
		assert.Equal(t, meetup.ID, body.Events[0].ID)
		assert.Equal(t, party.ID, body.Events[1].ID)
		assert.EqualValues(t, 2, s.count(&models.Event{}))
	})

	t.Run("filters ignored without apply_filters", func(t *testing.T) {
		rr := s.do(http.MethodGet, "/events?location=roof", nil, "")

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, decode[listBody](t, rr).Events, 2)
	})

	t.Run("apply_filters with any value", func(t *testing.T) {
		rr := s.do(http.MethodGet, "/events?apply_filters=&location=roof", nil, "")

		require.Equal(t, http.StatusOK, rr.Code)
		body := decode[listBody](t, rr)
		require.Len(t, body.Events, 1)
		assert.Equal(t, party.ID, body.Events[0].ID)
	})

	t.Run("malformed date filter", func(t *testing.T) {
		rr := s.do(http.MethodGet, "/events?apply_filters=1&date=01/03/2099", nil, "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetEvent(t *testing.T) {
	s := newTestServer(t)
	event := s.createEvent(models.Event{Title: "Launch", Date: "2099-06-01"})

	rr := s.do(http.MethodGet, eventPath(event.ID, ""), nil, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Launch", decode[models.Event](t, rr).Title)

	rr = s.do(http.MethodGet, eventPath(event.ID+100, ""), nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateEvent(t *testing.T) {
	s := newTestServer(t)
	staff := s.session("boss")
	member := s.session("ana")

	t.Run("anonymous", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/events/create", launch(), "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Zero(t, s.count(&models.Event{}))
	})

	t.Run("not staff", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/events/create", launch(), member)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Zero(t, s.count(&models.Event{}))
	})

	t.Run("with attendee", func(t *testing.T) {
		body := launch()
		body["attendees"] = []map[string]string{
			{"first_name": "Ana", "last_name": "Lee", "email": "ana@example.com"},
			{"first_name": "Partial"},
		}

		rr := s.do(http.MethodPost, "/events/create", body, staff)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		created := decode[registrationsBody](t, rr)
		assert.Equal(t, "Launch", created.Event.Title)
		assert.Equal(t, "18:30:00", created.Event.Time)
		require.Len(t, created.Registrations, 1)
		assert.Equal(t, "Ana", created.Registrations[0].FirstName)
		assert.Equal(t, created.Event.ID, created.Registrations[0].EventID)

		require.Len(t, s.dialer.sent, 1)
		assert.Equal(t, []string{"Registration Confirmation for Launch"}, s.dialer.sent[0].GetHeader("Subject"))
		assert.Equal(t, []string{"ana@example.com"}, s.dialer.sent[0].GetHeader("To"))
	})

	t.Run("invalid event", func(t *testing.T) {
		body := launch()
		body["date"] = "June 1st"
		delete(body, "title")
		before := s.count(&models.Event{})

		rr := s.do(http.MethodPost, "/events/create", body, staff)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())
		var locations []string
		for _, e := range decode[errorBody](t, rr).Errors {
			locations = append(locations, e.Location)
		}
		assert.Contains(t, locations, "body.title")
		assert.Contains(t, locations, "body.date")
		assert.Equal(t, before, s.count(&models.Event{}))
	})
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	s := newTestServer(t)
	staff := s.session("boss")
	member := s.session("ana")
	event := s.createEvent(models.Event{Title: "Launch", Date: "2099-06-01"})
	require.NoError(t, s.db.Create(&models.EventRegistration{EventID: event.ID, FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"}).Error)

	t.Run("edit form is staff only", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, eventPath(event.ID, "/edit"), nil, member).Code)

		rr := s.do(http.MethodGet, eventPath(event.ID, "/edit"), nil, staff)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Launch", decode[models.Event](t, rr).Title)
	})

	t.Run("update", func(t *testing.T) {
		body := launch()
		body["title"] = "Relaunch"

		assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, eventPath(event.ID, "/edit"), body, member).Code)

		rr := s.do(http.MethodPost, eventPath(event.ID, "/edit"), body, staff)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Relaunch", decode[models.Event](t, rr).Title)
	})

	t.Run("delete cascades", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, eventPath(event.ID, "/delete"), nil, member).Code)

		rr := s.do(http.MethodPost, eventPath(event.ID, "/delete"), nil, staff)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Zero(t, s.count(&models.Event{}))
		assert.Zero(t, s.count(&models.EventRegistration{}))

		rr = s.do(http.MethodPost, eventPath(event.ID, "/delete"), nil, staff)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRegisterForEvent(t *testing.T) {
	s := newTestServer(t)
	member := s.session("ana")
	event := s.createEvent(models.Event{Title: "Launch", Date: "2099-06-01"})
	attendee := map[string]string{"first_name": "Ana", "last_name": "Lee", "email": "ana@example.com"}

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, eventPath(event.ID, "/register"), attendee, "").Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, eventPath(event.ID, "/register"), nil, "").Code)
	})

	t.Run("unknown event", func(t *testing.T) {
		rr := s.do(http.MethodPost, eventPath(event.ID+100, "/register"), attendee, member)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Zero(t, s.count(&models.EventRegistration{}))
	})

	t.Run("registers and mails", func(t *testing.T) {
		rr := s.do(http.MethodPost, eventPath(event.ID, "/register"), attendee, member)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		registration := decode[registrationBody](t, rr).Registration
		assert.Equal(t, event.ID, registration.EventID)
		require.NotNil(t, registration.UserID)
		require.Len(t, s.dialer.sent, 1)
		assert.Equal(t, []string{"Registration Confirmation for Launch"}, s.dialer.sent[0].GetHeader("Subject"))
	})

	t.Run("invalid form echoes registrations", func(t *testing.T) {
		rr := s.do(http.MethodPost, eventPath(event.ID, "/register"), map[string]string{"first_name": "Bo", "email": "nope"}, member)

		require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())
		body := decode[errorBody](t, rr)
		assert.Equal(t, http.StatusUnprocessableEntity, body.Status)
		assert.NotEmpty(t, body.Errors)
		require.Len(t, body.Registrations, 1)
		assert.Equal(t, "Ana", body.Registrations[0].FirstName)
		assert.EqualValues(t, 1, s.count(&models.EventRegistration{}))
	})

	t.Run("lists registrations", func(t *testing.T) {
		rr := s.do(http.MethodGet, eventPath(event.ID, "/register"), nil, member)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		body := decode[registrationsBody](t, rr)
		assert.Equal(t, event.ID, body.Event.ID)
		assert.Len(t, body.Registrations, 1)
	})

	t.Run("mail failure", func(t *testing.T) {
		s.dialer.err = errSMTP
		t.Cleanup(func() { s.dialer.err = nil })

		rr := s.do(http.MethodPost, eventPath(event.ID, "/register"), attendee, member)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.EqualValues(t, 2, s.count(&models.EventRegistration{}))
	})
}

func TestAccountFlow(t *testing.T) {
	s := newTestServer(t)
	cookie := s.session("ana")
	event := s.createEvent(models.Event{Title: "Launch", Date: "2099-06-01"})

	rr := s.do(http.MethodGet, "/me", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "ana", decode[models.User](t, rr).Username)

	rr = s.do(http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	t.Run("logged out cookie is anonymous", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/me", nil, cookie).Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/logout", nil, cookie).Code)

		attendee := map[string]string{"first_name": "Ana", "last_name": "Lee", "email": "ana@example.com"}
		rr := s.do(http.MethodPost, eventPath(event.ID, "/register"), attendee, cookie)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Zero(t, s.count(&models.EventRegistration{}))
		assert.Empty(t, s.dialer.sent)
	})

	cookie = s.login("ana")

	rr = s.do(http.MethodDelete, "/account", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Zero(t, s.count(&models.User{}))

	rr = s.do(http.MethodGet, "/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
