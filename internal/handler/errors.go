package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/middleware"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	"github.com/labstack/echo/v4"
)

// serviceError maps service sentinels to problem responses. Anything it
// does not know is passed through and becomes a 500.
func serviceError(err error) error {
	status, typ := 0, ""
	switch {
	case errors.Is(err, service.ErrSlotUnavailable):
		status, typ = http.StatusConflict, "slot_unavailable"
	case errors.Is(err, service.ErrConcurrentWrite):
		status, typ = http.StatusConflict, "concurrent_write"
	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrEventTypeNotFound),
		errors.Is(err, service.ErrStatusNotFound):
		status, typ = http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrEventTypeInactive),
		errors.Is(err, service.ErrStatusInactive),
		errors.Is(err, service.ErrAssigneeNotFound),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrStartInPast),
		errors.Is(err, service.ErrInvalidEventType),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrDefaultRequired),
		errors.Is(err, service.ErrDefaultMustBeActive):
		status, typ = http.StatusBadRequest, "validation_error"
	case errors.Is(err, service.ErrEventTypeInUse),
		errors.Is(err, service.ErrStatusInUse),
		errors.Is(err, service.ErrStatusIsDefault),
		errors.Is(err, service.ErrSlugTaken):
		status, typ = http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrInvalidCredentials):
		status, typ = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrNoDefaultStatus),
		errors.Is(err, service.ErrCatalogIncomplete):
		status, typ = http.StatusServiceUnavailable, "catalog_incomplete"
	default:
		return err
	}
	return middleware.NewProblem(status, typ, err.Error())
}

func badRequest(detail string) error {
	return middleware.NewProblem(http.StatusBadRequest, "validation_error", detail)
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	return c.Validate(req)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return uint(id), nil
}

func parseOptionalID(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	v := uint(id)
	return &v, nil
}

// parseTimeParam accepts RFC 3339 or a plain date in loc.
func parseTimeParam(c echo.Context, name string, loc *time.Location) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return nil, badRequest("invalid " + name + ", expected RFC 3339 or YYYY-MM-DD")
	}
	return &t, nil
}
