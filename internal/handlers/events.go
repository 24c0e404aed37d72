package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/events-api/internal/apierr"
	"github.com/gdg-garage/events-api/internal/auth"
	"github.com/gdg-garage/events-api/internal/events"
	"github.com/gdg-garage/events-api/internal/models"
	"github.com/gdg-garage/events-api/internal/serializer"
)

type EventHandler struct {
	service     *events.Service
	authHandler *auth.AuthHandler
	clock       func() time.Time
}

func NewEventHandler(service *events.Service, authHandler *auth.AuthHandler, clock func() time.Time) *EventHandler {
	return &EventHandler{service: service, authHandler: authHandler, clock: clock}
}

type ListEventsRequest struct {
	Date     string `query:"date" doc:"Only events on this date, YYYY-MM-DD"`
	Time     string `query:"time" doc:"Only events starting at this time, HH:MM"`
	Location string `query:"location" doc:"Case-insensitive part of the location"`
	Search   string `query:"search" doc:"Case-insensitive part of the title or description"`

	// ApplyFilters is set when the query has an apply_filters key, whatever its value.
	ApplyFilters bool
}

func (i *ListEventsRequest) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	i.ApplyFilters = u.Query().Has("apply_filters")
	return nil
}

type EventsResponse struct {
	Body struct {
		Events []models.Event `json:"events"`
	}
}

// HandleList purges past events and lists the remaining ones.
func (h *EventHandler) HandleList(ctx context.Context, input *ListEventsRequest) (*EventsResponse, error) {
	list, err := h.service.List(ctx, h.clock(), events.Filter{
		Apply:    input.ApplyFilters,
		Date:     input.Date,
		Time:     input.Time,
		Location: input.Location,
		Search:   input.Search,
	})
	if err != nil {
		return nil, apierr.From(err)
	}

	res := &EventsResponse{}
	res.Body.Events = list
	if res.Body.Events == nil {
		res.Body.Events = []models.Event{}
	}
	return res, nil
}

type EventRequest struct {
	ID uint `path:"id" doc:"Event ID"`
}

type EventResponse struct {
	Body models.Event
}

func (h *EventHandler) HandleGet(ctx context.Context, input *EventRequest) (*EventResponse, error) {
	event, err := h.service.Get(ctx, input.ID)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &EventResponse{Body: *event}, nil
}

type StaffEventRequest struct {
	auth.AuthInput
	ID uint `path:"id" doc:"Event ID"`
}

// HandleEdit returns the event to prefill an edit form.
func (h *EventHandler) HandleEdit(ctx context.Context, input *StaffEventRequest) (*EventResponse, error) {
	if _, err := h.authHandler.AuthorizeStaff(ctx, input.Cookie); err != nil {
		return nil, apierr.From(err)
	}
	return h.HandleGet(ctx, &EventRequest{ID: input.ID})
}

type CreateEventRequest struct {
	auth.AuthInput
	Body struct {
		serializer.EventInput
		Attendees []serializer.AttendeeInput `json:"attendees,omitempty" doc:"People to register right away; incomplete entries are ignored"`
	}
}

type CreateEventResponse struct {
	Body struct {
		Event         models.Event               `json:"event"`
		Registrations []models.EventRegistration `json:"registrations"`
	}
}

func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventRequest) (*CreateEventResponse, error) {
	user, err := h.authHandler.AuthorizeStaff(ctx, input.Cookie)
	if err != nil {
		return nil, apierr.From(err)
	}

	event, registrations, err := h.service.Create(ctx, *user, input.Body.EventInput, input.Body.Attendees)
	if err != nil {
		return nil, apierr.From(err)
	}

	res := &CreateEventResponse{}
	res.Body.Event = *event
	res.Body.Registrations = registrations
	if res.Body.Registrations == nil {
		res.Body.Registrations = []models.EventRegistration{}
	}
	return res, nil
}

type UpdateEventRequest struct {
	auth.AuthInput
	ID   uint `path:"id" doc:"Event ID"`
	Body serializer.EventInput
}

func (h *EventHandler) HandleUpdate(ctx context.Context, input *UpdateEventRequest) (*EventResponse, error) {
	if _, err := h.authHandler.AuthorizeStaff(ctx, input.Cookie); err != nil {
		return nil, apierr.From(err)
	}

	event, err := h.service.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &EventResponse{Body: *event}, nil
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *EventHandler) HandleDelete(ctx context.Context, input *StaffEventRequest) (*MessageResponse, error) {
	if _, err := h.authHandler.AuthorizeStaff(ctx, input.Cookie); err != nil {
		return nil, apierr.From(err)
	}

	if err := h.service.Delete(ctx, input.ID); err != nil {
		return nil, apierr.From(err)
	}

	res := &MessageResponse{}
	res.Body.Message = "Event deleted"
	return res, nil
}
