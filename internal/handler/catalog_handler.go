package handler

import (
	"net/http"
	"strconv"

	"github.com/Eursukkul/seasonal-booking/internal/dto"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves event types and workflow statuses.
type CatalogHandler struct {
	eventTypes service.EventTypeService
	statuses   service.WorkflowStatusService
}

func NewCatalogHandler(eventTypes service.EventTypeService, statuses service.WorkflowStatusService) *CatalogHandler {
	return &CatalogHandler{eventTypes: eventTypes, statuses: statuses}
}

func (h *CatalogHandler) RegisterRoutes(public, admin *echo.Group) {
	public.GET("/event-types", h.ListActiveEventTypes)

	admin.GET("/event-types", h.ListEventTypes)
	admin.POST("/event-types", h.CreateEventType)
	admin.GET("/event-types/:id", h.GetEventType)
	admin.PUT("/event-types/:id", h.UpdateEventType)
	admin.DELETE("/event-types/:id", h.DeleteEventType)

	admin.GET("/workflow-statuses", h.ListStatuses)
	admin.POST("/workflow-statuses", h.CreateStatus)
	admin.GET("/workflow-statuses/:id", h.GetStatus)
	admin.PUT("/workflow-statuses/:id", h.UpdateStatus)
	admin.DELETE("/workflow-statuses/:id", h.DeleteStatus)
}

// --- Event types ---

func (h *CatalogHandler) ListActiveEventTypes(c echo.Context) error {
	ets, err := h.eventTypes.ListEventTypes(c.Request().Context(), true)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventTypeResponses(ets))
}

func (h *CatalogHandler) ListEventTypes(c echo.Context) error {
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	ets, err := h.eventTypes.ListEventTypes(c.Request().Context(), activeOnly)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventTypeResponses(ets))
}

func (h *CatalogHandler) GetEventType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	et, err := h.eventTypes.GetEventType(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventTypeResponse(et))
}

func (h *CatalogHandler) CreateEventType(c echo.Context) error {
	var req dto.EventTypeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	et := req.ToModel(0)
	if err := h.eventTypes.CreateEventType(c.Request().Context(), et); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToEventTypeResponse(et))
}

func (h *CatalogHandler) UpdateEventType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.EventTypeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	et := req.ToModel(id)
	if err := h.eventTypes.UpdateEventType(c.Request().Context(), et); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToEventTypeResponse(et))
}

func (h *CatalogHandler) DeleteEventType(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.eventTypes.DeleteEventType(c.Request().Context(), id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Workflow statuses ---

func (h *CatalogHandler) ListStatuses(c echo.Context) error {
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	sts, err := h.statuses.ListStatuses(c.Request().Context(), activeOnly)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToWorkflowStatusResponses(sts))
}

func (h *CatalogHandler) GetStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	st, err := h.statuses.GetStatus(c.Request().Context(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToWorkflowStatusResponse(st))
}

func (h *CatalogHandler) CreateStatus(c echo.Context) error {
	var req dto.WorkflowStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	st := req.ToModel(0)
	if err := h.statuses.CreateStatus(c.Request().Context(), st); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToWorkflowStatusResponse(st))
}

func (h *CatalogHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.WorkflowStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	st := req.ToModel(id)
	if err := h.statuses.UpdateStatus(c.Request().Context(), st); err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, dto.ToWorkflowStatusResponse(st))
}

func (h *CatalogHandler) DeleteStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.statuses.DeleteStatus(c.Request().Context(), id); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
