package serializer

import (
	"time"

	"github.com/gdg-garage/events-api/internal/errdef"
	"github.com/gdg-garage/events-api/internal/models"
)

const (
	dateMessage = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	timeMessage = "Time has wrong format. Use one of these formats instead: hh:mm[:ss]."
)

var timeLayouts = []string{"15:04", models.TimeLayout}

// EventInput holds the raw fields of an event submission.
type EventInput struct {
	Title       string `json:"title,omitempty" validate:"required,max=200" doc:"Title of the event"`
	Description string `json:"description,omitempty" validate:"required" doc:"Description of the event"`
	Date        string `json:"date,omitempty" validate:"required" doc:"Date of the event, YYYY-MM-DD"`
	Time        string `json:"time,omitempty" validate:"required" doc:"Start time, HH:MM or HH:MM:SS"`
	Location    string `json:"location,omitempty" validate:"required,max=200" doc:"Where the event takes place"`
	Organizer   string `json:"organizer,omitempty" validate:"required,max=100" doc:"Who organizes the event"`
}

// Event validates in and returns the event it describes. The returned
// event has no identity; callers copy the fields onto a stored record on update.
func Event(in EventInput) (models.Event, error) {
	trim(&in.Title, &in.Description, &in.Date, &in.Time, &in.Location, &in.Organizer)

	r, err := check(in)
	if err != nil {
		return models.Event{}, err
	}

	date, dateErr := ParseDate(in.Date)
	if in.Date != "" && dateErr != nil {
		r.add("date", dateMessage)
	}
	clock, timeErr := ParseTime(in.Time)
	if in.Time != "" && timeErr != nil {
		r.add("time", timeMessage)
	}

	if !r.empty() {
		return models.Event{}, errdef.NewValidation(r)
	}

	return models.Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        date,
		Time:        clock,
		Location:    in.Location,
		Organizer:   in.Organizer,
	}, nil
}

// ParseDate returns s in models.DateLayout.
func ParseDate(s string) (string, error) {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return "", err
	}
	return d.Format(models.DateLayout), nil
}

// ParseTime accepts HH:MM or HH:MM:SS and returns it in models.TimeLayout.
func ParseTime(s string) (string, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.Format(models.TimeLayout), nil
		}
	}
	return "", err
}
