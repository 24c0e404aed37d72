// Package apierr maps errdef kinds onto huma error responses.
package apierr

import (
	"errors"
	"log/slog"
	"sort"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/events-api/internal/errdef"
)

// From converts err into a huma.StatusError. Errors that already carry a
// status pass through untouched; unknown errors become a 500 without details.
func From(err error) error {
	if err == nil {
		return nil
	}

	var se huma.StatusError
	if errors.As(err, &se) {
		return se
	}

	if v, ok := errdef.AsValidation(err); ok {
		var errs []error
		for _, d := range Details(v) {
			errs = append(errs, d)
		}
		return huma.Error422UnprocessableEntity("validation failed", errs...)
	}

	switch {
	case errdef.IsBadRequest(err):
		return huma.Error400BadRequest(err.Error())
	case errdef.IsUnauthorized(err):
		return huma.Error401Unauthorized(err.Error())
	case errdef.IsForbidden(err):
		return huma.Error403Forbidden(err.Error())
	case errdef.IsNotFound(err):
		return huma.Error404NotFound(err.Error())
	case errdef.IsDuplicated(err):
		return huma.Error409Conflict(err.Error())
	case errdef.IsTransport(err):
		return huma.Error502BadGateway(err.Error())
	}

	slog.Error("unhandled error", "error", err)
	return huma.Error500InternalServerError("internal server error")
}

// Details lists one huma.ErrorDetail per invalid field, ordered by field name.
func Details(v *errdef.ValidationError) []*huma.ErrorDetail {
	fields := make([]string, 0, len(v.Fields))
	for field := range v.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var details []*huma.ErrorDetail
	for _, field := range fields {
		for _, message := range v.Fields[field] {
			details = append(details, &huma.ErrorDetail{
				Message:  message,
				Location: "body." + field,
			})
		}
	}
	return details
}
