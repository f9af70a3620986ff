package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/dto"
	"github.com/Eursukkul/seasonal-booking/internal/middleware"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc      service.BookingService
	statuses service.WorkflowStatusService
	loc      *time.Location
}

func NewBookingHandler(svc service.BookingService, statuses service.WorkflowStatusService, loc *time.Location) *BookingHandler {
	return &BookingHandler{svc: svc, statuses: statuses, loc: loc}
}

func (h *BookingHandler) RegisterRoutes(public, admin *echo.Group) {
	public.POST("/bookings", h.CreatePublicBooking)

	admin.GET("/bookings", h.ListBookings)
	admin.POST("/bookings", h.CreateAdminBooking)
	admin.GET("/bookings/:id", h.GetBooking)
	admin.PATCH("/bookings/:id", h.UpdateBooking)
	admin.GET("/bookings/:id/activity", h.ListActivity)
	admin.GET("/board", h.Board)
}

func (h *BookingHandler) CreatePublicBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.CreatePublicBooking(c.Request().Context(), req.ToInput())
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToPublicBookingResponse(booking))
}

func (h *BookingHandler) CreateAdminBooking(c echo.Context) error {
	var req dto.AdminCreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.CreateAdminBooking(c.Request().Context(), req.ToInput(), actorFrom(c))
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.UpdateBooking(c.Request().Context(), id, req.ToInput(), actorFrom(c))
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	filter, err := h.parseFilter(c)
	if err != nil {
		return err
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), filter)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) ListActivity(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	entries, err := h.svc.ListActivity(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToActivityResponses(entries))
}

func (h *BookingHandler) Board(c echo.Context) error {
	columns, err := h.svc.Board(c.Request().Context())
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBoardResponse(columns))
}

// parseFilter reads status (id or slug), assignee_id, event_type_id, from
// and to. A plain-date to covers the whole day.
func (h *BookingHandler) parseFilter(c echo.Context) (repository.BookingFilter, error) {
	var (
		filter repository.BookingFilter
		err    error
	)

	if raw := c.QueryParam("status"); raw != "" {
		if id, perr := strconv.ParseUint(raw, 10, 64); perr == nil {
			v := uint(id)
			filter.StatusID = &v
		} else {
			st, err := h.statuses.GetStatusBySlug(c.Request().Context(), raw)
			if err != nil {
				if errors.Is(err, service.ErrStatusNotFound) {
					return filter, badRequest("unknown status " + strconv.Quote(raw))
				}
				return filter, err
			}
			filter.StatusID = &st.ID
		}
	}

	if filter.AssigneeID, err = parseOptionalID(c, "assignee_id"); err != nil {
		return filter, err
	}
	if filter.EventTypeID, err = parseOptionalID(c, "event_type_id"); err != nil {
		return filter, err
	}
	if filter.From, err = parseTimeParam(c, "from", h.loc); err != nil {
		return filter, err
	}
	if filter.To, err = parseTimeParam(c, "to", h.loc); err != nil {
		return filter, err
	}
	if filter.To != nil && isDateOnly(c.QueryParam("to")) {
		end := endOfDay(*filter.To)
		filter.To = &end
	}
	return filter, nil
}

func actorFrom(c echo.Context) service.Actor {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return service.Actor{}
	}
	id := claims.UserID
	return service.Actor{ID: &id, Name: claims.Name}
}
