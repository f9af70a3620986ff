package handler

import (
	"net/http"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/dto"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	"github.com/jinzhu/now"
	"github.com/labstack/echo/v4"
)

type AvailabilityHandler struct {
	svc service.AvailabilityService
	loc *time.Location
}

func NewAvailabilityHandler(svc service.AvailabilityService, loc *time.Location) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc, loc: loc}
}

func (h *AvailabilityHandler) RegisterRoutes(public, _ *echo.Group) {
	public.POST("/availability/check", h.Check)
	public.GET("/calendar/blocked-slots", h.BlockedSlots)
}

func (h *AvailabilityHandler) Check(c echo.Context) error {
	var req dto.AvailabilityCheckRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	available, err := h.svc.IsSlotAvailable(c.Request().Context(), req.Start, req.DurationMinutes, req.EventTypeID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}

// BlockedSlots serves ?month=YYYY-MM or ?from&to. Without either, every
// approved booking is projected.
func (h *AvailabilityHandler) BlockedSlots(c echo.Context) error {
	from, to, err := h.parseRange(c)
	if err != nil {
		return err
	}

	slots, err := h.svc.BlockedSlots(c.Request().Context(), from, to)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBlockedSlotResponses(slots))
}

func (h *AvailabilityHandler) parseRange(c echo.Context) (*time.Time, *time.Time, error) {
	month := c.QueryParam("month")
	rawFrom, rawTo := c.QueryParam("from"), c.QueryParam("to")

	switch {
	case month != "" && (rawFrom != "" || rawTo != ""):
		return nil, nil, badRequest("use either month or from and to")

	case month != "":
		t, err := time.ParseInLocation("2006-01", month, h.loc)
		if err != nil {
			return nil, nil, badRequest("invalid month, expected YYYY-MM")
		}
		m := now.With(t)
		from, to := m.BeginningOfMonth(), m.EndOfMonth()
		return &from, &to, nil

	case rawFrom != "" || rawTo != "":
		if rawFrom == "" || rawTo == "" {
			return nil, nil, badRequest("from and to must be given together")
		}
		from, err := parseTimeParam(c, "from", h.loc)
		if err != nil {
			return nil, nil, err
		}
		to, err := parseTimeParam(c, "to", h.loc)
		if err != nil {
			return nil, nil, err
		}
		end := *to
		if isDateOnly(rawTo) {
			end = endOfDay(end)
		}
		if end.Before(*from) {
			return nil, nil, badRequest("to must not be before from")
		}
		return from, &end, nil

	default:
		return nil, nil, nil
	}
}

func isDateOnly(raw string) bool {
	_, err := time.Parse(time.DateOnly, raw)
	return err == nil
}

func endOfDay(t time.Time) time.Time {
	return now.With(t).EndOfDay()
}
