package handler

import (
	"context"
	"io"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/Eursukkul/seasonal-booking/internal/availability"
	"github.com/Eursukkul/seasonal-booking/internal/middleware"
	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/Eursukkul/seasonal-booking/internal/service"
	"github.com/Eursukkul/seasonal-booking/pkg/auth"
	"github.com/labstack/echo/v4"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createPublicFn func(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error)
	createAdminFn  func(ctx context.Context, in service.AdminCreateBookingInput, actor service.Actor) (*models.Booking, error)
	updateFn       func(ctx context.Context, id uint, in service.UpdateBookingInput, actor service.Actor) (*models.Booking, error)
	getFn          func(ctx context.Context, id uint) (*models.Booking, error)
	listFn         func(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
	boardFn        func(ctx context.Context) ([]service.BoardColumn, error)
	activityFn     func(ctx context.Context, bookingID uint) ([]models.ActivityLog, error)
}

func (m *mockBookingService) CreatePublicBooking(ctx context.Context, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createPublicFn(ctx, in)
}
func (m *mockBookingService) CreateAdminBooking(ctx context.Context, in service.AdminCreateBookingInput, actor service.Actor) (*models.Booking, error) {
	return m.createAdminFn(ctx, in, actor)
}
func (m *mockBookingService) UpdateBooking(ctx context.Context, id uint, in service.UpdateBookingInput, actor service.Actor) (*models.Booking, error) {
	return m.updateFn(ctx, id, in, actor)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	return m.listFn(ctx, filter)
}
func (m *mockBookingService) Board(ctx context.Context) ([]service.BoardColumn, error) {
	return m.boardFn(ctx)
}
func (m *mockBookingService) ListActivity(ctx context.Context, bookingID uint) ([]models.ActivityLog, error) {
	return m.activityFn(ctx, bookingID)
}

// --- Mock AvailabilityService ---

type mockAvailabilityService struct {
	checkFn   func(ctx context.Context, start time.Time, durationMinutes int, eventTypeID *uint) (bool, error)
	blockedFn func(ctx context.Context, from, to *time.Time) ([]availability.BlockedSlot, error)
}

func (m *mockAvailabilityService) IsSlotAvailable(ctx context.Context, start time.Time, durationMinutes int, eventTypeID *uint) (bool, error) {
	return m.checkFn(ctx, start, durationMinutes, eventTypeID)
}
func (m *mockAvailabilityService) BlockedSlots(ctx context.Context, from, to *time.Time) ([]availability.BlockedSlot, error) {
	return m.blockedFn(ctx, from, to)
}
func (m *mockAvailabilityService) CheckCatalog(ctx context.Context) error { return nil }

// --- Mock EventTypeService ---

type mockEventTypeService struct {
	listFn   func(ctx context.Context, activeOnly bool) ([]models.EventType, error)
	getFn    func(ctx context.Context, id uint) (*models.EventType, error)
	createFn func(ctx context.Context, et *models.EventType) error
	updateFn func(ctx context.Context, et *models.EventType) error
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockEventTypeService) ListEventTypes(ctx context.Context, activeOnly bool) ([]models.EventType, error) {
	return m.listFn(ctx, activeOnly)
}
func (m *mockEventTypeService) GetEventType(ctx context.Context, id uint) (*models.EventType, error) {
	return m.getFn(ctx, id)
}
func (m *mockEventTypeService) CreateEventType(ctx context.Context, et *models.EventType) error {
	return m.createFn(ctx, et)
}
func (m *mockEventTypeService) UpdateEventType(ctx context.Context, et *models.EventType) error {
	return m.updateFn(ctx, et)
}
func (m *mockEventTypeService) DeleteEventType(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}
func (m *mockEventTypeService) SyncEventType(ctx context.Context, et *models.EventType) error {
	return nil
}

// --- Mock WorkflowStatusService ---

type mockStatusService struct {
	listFn   func(ctx context.Context, activeOnly bool) ([]models.WorkflowStatus, error)
	getFn    func(ctx context.Context, id uint) (*models.WorkflowStatus, error)
	bySlugFn func(ctx context.Context, slug string) (*models.WorkflowStatus, error)
	createFn func(ctx context.Context, st *models.WorkflowStatus) error
	updateFn func(ctx context.Context, st *models.WorkflowStatus) error
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockStatusService) ListStatuses(ctx context.Context, activeOnly bool) ([]models.WorkflowStatus, error) {
	return m.listFn(ctx, activeOnly)
}
func (m *mockStatusService) GetStatus(ctx context.Context, id uint) (*models.WorkflowStatus, error) {
	return m.getFn(ctx, id)
}
func (m *mockStatusService) GetStatusBySlug(ctx context.Context, slug string) (*models.WorkflowStatus, error) {
	return m.bySlugFn(ctx, slug)
}
func (m *mockStatusService) GetDefaultStatus(ctx context.Context) (*models.WorkflowStatus, error) {
	return nil, service.ErrNoDefaultStatus
}
func (m *mockStatusService) CreateStatus(ctx context.Context, st *models.WorkflowStatus) error {
	return m.createFn(ctx, st)
}
func (m *mockStatusService) UpdateStatus(ctx context.Context, st *models.WorkflowStatus) error {
	return m.updateFn(ctx, st)
}
func (m *mockStatusService) DeleteStatus(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

// --- Mock AuthService ---

type mockAuthService struct {
	loginFn func(ctx context.Context, email, password string) (*service.LoginResult, error)
	usersFn func(ctx context.Context) ([]models.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	return m.loginFn(ctx, email, password)
}
func (m *mockAuthService) ListAssignees(ctx context.Context) ([]models.User, error) {
	return m.usersFn(ctx)
}

// --- Test server ---

type routeRegistrar interface {
	RegisterRoutes(public, admin *echo.Group)
}

var testTokens = auth.NewTokenManager("handler-test-secret", time.Hour)

// newServer wires handlers the way serve does, behind the real auth and
// error middleware.
func newServer(handlers ...routeRegistrar) *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))

	public := e.Group("/api/v1")
	admin := public.Group("/admin", middleware.JWTAuth(testTokens), middleware.RequireAdmin)
	for _, h := range handlers {
		h.RegisterRoutes(public, admin)
	}
	return e
}

func adminToken() string {
	token, _, err := testTokens.CreateAccessToken(100, "Greta", "greta@example.com", true)
	if err != nil {
		panic(err)
	}
	return "Bearer " + token
}

func berlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
	return loc
}
