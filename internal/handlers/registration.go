package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/events-api/internal/apierr"
	"github.com/gdg-garage/events-api/internal/auth"
	"github.com/gdg-garage/events-api/internal/errdef"
	"github.com/gdg-garage/events-api/internal/events"
	"github.com/gdg-garage/events-api/internal/models"
	"github.com/gdg-garage/events-api/internal/serializer"
)

type RegistrationHandler struct {
	service     *events.Service
	authHandler *auth.AuthHandler
}

func NewRegistrationHandler(service *events.Service, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{service: service, authHandler: authHandler}
}

type RegistrationsRequest struct {
	auth.AuthInput
	EventID uint `path:"event_id" doc:"Event ID"`
}

type RegistrationsResponse struct {
	Body struct {
		Event         models.Event               `json:"event"`
		Registrations []models.EventRegistration `json:"registrations"`
	}
}

// HandleList returns an event with everyone registered for it.
func (h *RegistrationHandler) HandleList(ctx context.Context, input *RegistrationsRequest) (*RegistrationsResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, apierr.From(err)
	}

	event, registrations, err := h.service.Registrations(ctx, input.EventID)
	if err != nil {
		return nil, apierr.From(err)
	}

	res := &RegistrationsResponse{}
	res.Body.Event = *event
	res.Body.Registrations = registrations
	if res.Body.Registrations == nil {
		res.Body.Registrations = []models.EventRegistration{}
	}
	return res, nil
}

type RegistrationRequest struct {
	auth.AuthInput
	EventID uint `path:"event_id" doc:"Event ID"`
	Body    serializer.AttendeeInput
}

type RegistrationResponse struct {
	Body struct {
		Message      string                   `json:"message"`
		Registration models.EventRegistration `json:"registration"`
	}
}

// RegistrationFormError is a validation failure that also carries the current
// registrations of the event, so a client can redraw the form in one round trip.
type RegistrationFormError struct {
	*huma.ErrorModel
	Registrations []models.EventRegistration `json:"registrations"`
}

// HandleRegister signs the current user up for an event and mails a confirmation.
func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegistrationRequest) (*RegistrationResponse, error) {
	user, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, apierr.From(err)
	}

	registration, err := h.service.Register(ctx, input.EventID, &user.ID, input.Body)
	if v, ok := errdef.AsValidation(err); ok {
		return nil, h.formError(ctx, input.EventID, v)
	}
	if err != nil {
		return nil, apierr.From(err)
	}

	res := &RegistrationResponse{}
	res.Body.Message = "Registration successful, a confirmation email is on its way."
	res.Body.Registration = *registration
	return res, nil
}

func (h *RegistrationHandler) formError(ctx context.Context, eventID uint, v *errdef.ValidationError) error {
	_, registrations, err := h.service.Registrations(ctx, eventID)
	if err != nil {
		return apierr.From(err)
	}
	if registrations == nil {
		registrations = []models.EventRegistration{}
	}

	model := &huma.ErrorModel{
		Status: http.StatusUnprocessableEntity,
		Title:  http.StatusText(http.StatusUnprocessableEntity),
		Detail: "validation failed",
		Errors: apierr.Details(v),
	}

	return &RegistrationFormError{ErrorModel: model, Registrations: registrations}
}
