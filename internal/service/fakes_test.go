package service

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Eursukkul/seasonal-booking/internal/models"
	"github.com/Eursukkul/seasonal-booking/internal/repository"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T {
	return &v
}

// --- In-memory BookingRepository ---

type fakeBookingRepo struct {
	bookings  map[uint]models.Booking
	nextID    uint
	locks     int
	onLock    func()
	windows   [][2]time.Time
	commitErr error
}

func newFakeBookingRepo(bookings ...models.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: map[uint]models.Booking{}, nextID: 1}
	for _, b := range bookings {
		r.bookings[b.ID] = b
		if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
	}
	return r
}

// Transaction stages writes on a copy and only keeps them when fn succeeds
// and no commit error is configured.
func (r *fakeBookingRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	snapshot := make(map[uint]models.Booking, len(r.bookings))
	for k, v := range r.bookings {
		snapshot[k] = v
	}
	nextID := r.nextID
	err := fn(nil)
	if err == nil {
		err = r.commitErr
	}
	if err != nil {
		r.bookings = snapshot
		r.nextID = nextID
	}
	return err
}

func (r *fakeBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	if err := b.BeforeCreate(nil); err != nil {
		return err
	}
	b.ID = r.nextID
	r.nextID++
	stored := *b
	stored.EventType, stored.Status, stored.Assignee = nil, nil, nil
	r.bookings[b.ID] = stored
	return nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, tx *gorm.DB, b *models.Booking, columns ...string) error {
	stored := *b
	stored.EventType, stored.Status, stored.Assignee = nil, nil, nil
	r.bookings[b.ID] = stored
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookingRepo) FindAll(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.sorted() {
		if filter.StatusID != nil && b.StatusID != *filter.StatusID {
			continue
		}
		if filter.EventTypeID != nil && b.EventTypeID != *filter.EventTypeID {
			continue
		}
		if filter.AssigneeID != nil && (b.AssigneeID == nil || *b.AssigneeID != *filter.AssigneeID) {
			continue
		}
		if filter.From != nil && b.StartAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && b.StartAt.After(*filter.To) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookingRepo) FindStartingBetween(ctx context.Context, tx *gorm.DB, from, to time.Time, statusIDs []uint) ([]models.Booking, error) {
	r.windows = append(r.windows, [2]time.Time{from, to})
	out := []models.Booking{}
	for _, b := range r.sorted() {
		if b.StartAt.After(from) && b.StartAt.Before(to) && slices.Contains(statusIDs, b.StatusID) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByStatus(ctx context.Context, statusID uint) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.StatusID == statusID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) CountByEventType(ctx context.Context, eventTypeID uint) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.EventTypeID == eventTypeID {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) LockSchedule(ctx context.Context, tx *gorm.DB) error {
	r.locks++
	if r.onLock != nil {
		r.onLock()
	}
	return nil
}

func (r *fakeBookingRepo) sorted() []models.Booking {
	out := make([]models.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b models.Booking) int {
		if c := a.StartAt.Compare(b.StartAt); c != 0 {
			return c
		}
		return int(a.ID) - int(b.ID)
	})
	return out
}

// --- In-memory ActivityRepository ---

type fakeActivityRepo struct {
	entries []models.ActivityLog
}

func (r *fakeActivityRepo) Create(ctx context.Context, tx *gorm.DB, e *models.ActivityLog) error {
	e.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeActivityRepo) FindByBookingID(ctx context.Context, bookingID uint) ([]models.ActivityLog, error) {
	var out []models.ActivityLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].BookingID == bookingID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) actions(bookingID uint) []models.ActivityAction {
	var out []models.ActivityAction
	for _, e := range r.entries {
		if e.BookingID == bookingID {
			out = append(out, e.Action)
		}
	}
	return out
}

// --- In-memory EventTypeRepository ---

type fakeEventTypeRepo struct {
	eventTypes map[uint]models.EventType
	nextID     uint
}

func newFakeEventTypeRepo(eventTypes ...models.EventType) *fakeEventTypeRepo {
	r := &fakeEventTypeRepo{eventTypes: map[uint]models.EventType{}, nextID: 1}
	for _, et := range eventTypes {
		r.eventTypes[et.ID] = et
		if et.ID >= r.nextID {
			r.nextID = et.ID + 1
		}
	}
	return r
}

func (r *fakeEventTypeRepo) slugTaken(slug string, except uint) bool {
	for _, et := range r.eventTypes {
		if et.Slug == slug && et.ID != except {
			return true
		}
	}
	return false
}

func (r *fakeEventTypeRepo) Create(ctx context.Context, et *models.EventType) error {
	if r.slugTaken(et.Slug, 0) {
		return gorm.ErrDuplicatedKey
	}
	et.ID = r.nextID
	r.nextID++
	r.eventTypes[et.ID] = *et
	return nil
}

func (r *fakeEventTypeRepo) Update(ctx context.Context, et *models.EventType) error {
	if r.slugTaken(et.Slug, et.ID) {
		return gorm.ErrDuplicatedKey
	}
	updated := *et
	updated.UpstreamID = r.eventTypes[et.ID].UpstreamID
	r.eventTypes[et.ID] = updated
	return nil
}

func (r *fakeEventTypeRepo) Upsert(ctx context.Context, et *models.EventType) error {
	existing, err := r.FindByUpstreamID(ctx, *et.UpstreamID)
	if err != nil {
		return r.Create(ctx, et)
	}
	et.ID = existing.ID
	if r.slugTaken(et.Slug, et.ID) {
		return gorm.ErrDuplicatedKey
	}
	r.eventTypes[et.ID] = *et
	return nil
}

func (r *fakeEventTypeRepo) LinkUpstream(ctx context.Context, id, upstreamID uint) error {
	et, ok := r.eventTypes[id]
	if !ok || et.UpstreamID != nil {
		return nil
	}
	et.UpstreamID = &upstreamID
	r.eventTypes[id] = et
	return nil
}

func (r *fakeEventTypeRepo) FindByUpstreamID(ctx context.Context, upstreamID uint) (*models.EventType, error) {
	for _, et := range r.eventTypes {
		if et.UpstreamID != nil && *et.UpstreamID == upstreamID {
			return &et, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEventTypeRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.eventTypes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.eventTypes, id)
	return nil
}

func (r *fakeEventTypeRepo) FindByID(ctx context.Context, id uint) (*models.EventType, error) {
	et, ok := r.eventTypes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &et, nil
}

func (r *fakeEventTypeRepo) FindBySlug(ctx context.Context, slug string) (*models.EventType, error) {
	for _, et := range r.eventTypes {
		if et.Slug == slug {
			return &et, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEventTypeRepo) FindAll(ctx context.Context, activeOnly bool) ([]models.EventType, error) {
	var out []models.EventType
	for _, et := range r.eventTypes {
		if activeOnly && !et.IsActive {
			continue
		}
		out = append(out, et)
	}
	slices.SortFunc(out, func(a, b models.EventType) int { return a.SortOrder - b.SortOrder })
	return out, nil
}

func (r *fakeEventTypeRepo) LoadAll(ctx context.Context, tx *gorm.DB) ([]models.EventType, error) {
	return r.FindAll(ctx, false)
}

// --- In-memory WorkflowStatusRepository ---

type fakeStatusRepo struct {
	statuses map[uint]models.WorkflowStatus
	nextID   uint
}

func newFakeStatusRepo(statuses ...models.WorkflowStatus) *fakeStatusRepo {
	r := &fakeStatusRepo{statuses: map[uint]models.WorkflowStatus{}, nextID: 1}
	for _, st := range statuses {
		r.statuses[st.ID] = st
		if st.ID >= r.nextID {
			r.nextID = st.ID + 1
		}
	}
	return r
}

func (r *fakeStatusRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	snapshot := make(map[uint]models.WorkflowStatus, len(r.statuses))
	for k, v := range r.statuses {
		snapshot[k] = v
	}
	if err := fn(nil); err != nil {
		r.statuses = snapshot
		return err
	}
	return nil
}

// checkSingleDefault mirrors the partial unique index on is_default.
func (r *fakeStatusRepo) checkSingleDefault(candidate models.WorkflowStatus) error {
	if !candidate.IsDefault {
		return nil
	}
	for _, st := range r.statuses {
		if st.IsDefault && st.ID != candidate.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	return nil
}

func (r *fakeStatusRepo) Create(ctx context.Context, tx *gorm.DB, st *models.WorkflowStatus) error {
	for _, existing := range r.statuses {
		if existing.Slug == st.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	if err := r.checkSingleDefault(*st); err != nil {
		return err
	}
	st.ID = r.nextID
	r.nextID++
	r.statuses[st.ID] = *st
	return nil
}

func (r *fakeStatusRepo) Update(ctx context.Context, tx *gorm.DB, st *models.WorkflowStatus) error {
	if err := r.checkSingleDefault(*st); err != nil {
		return err
	}
	r.statuses[st.ID] = *st
	return nil
}

func (r *fakeStatusRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.statuses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.statuses, id)
	return nil
}

func (r *fakeStatusRepo) FindByID(ctx context.Context, id uint) (*models.WorkflowStatus, error) {
	st, ok := r.statuses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &st, nil
}

func (r *fakeStatusRepo) FindBySlug(ctx context.Context, slug string) (*models.WorkflowStatus, error) {
	for _, st := range r.statuses {
		if st.Slug == slug {
			return &st, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStatusRepo) FindDefault(ctx context.Context) (*models.WorkflowStatus, error) {
	for _, st := range r.statuses {
		if st.IsDefault {
			return &st, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeStatusRepo) FindAll(ctx context.Context, activeOnly bool) ([]models.WorkflowStatus, error) {
	var out []models.WorkflowStatus
	for _, st := range r.statuses {
		if activeOnly && !st.IsActive {
			continue
		}
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b models.WorkflowStatus) int { return a.SortOrder - b.SortOrder })
	return out, nil
}

func (r *fakeStatusRepo) LoadAll(ctx context.Context, tx *gorm.DB) ([]models.WorkflowStatus, error) {
	return r.FindAll(ctx, false)
}

func (r *fakeStatusRepo) ClearDefaultExcept(ctx context.Context, tx *gorm.DB, keepID uint) error {
	for id, st := range r.statuses {
		if st.IsDefault && id != keepID {
			st.IsDefault = false
			r.statuses[id] = st
		}
	}
	return nil
}

func (r *fakeStatusRepo) defaults() []uint {
	var ids []uint
	for id, st := range r.statuses {
		if st.IsDefault {
			ids = append(ids, id)
		}
	}
	return ids
}

// --- In-memory UserRepository ---

type fakeUserRepo struct {
	users map[uint]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	u.ID = uint(len(r.users) + 1)
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindActive(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	slices.SortFunc(out, func(a, b models.User) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

// --- Fixtures ---

const (
	statusPending   uint = 1
	statusReviewing uint = 2
	statusApproved  uint = 3
	statusCompleted uint = 4

	typeParty  uint = 10
	typeVisit  uint = 11
	typeRetire uint = 12

	userGreta uint = 100
	userHans  uint = 101
)

func fixtureStatuses() []models.WorkflowStatus {
	return []models.WorkflowStatus{
		{ID: statusPending, Slug: models.SlugPending, Name: "Pending", SortOrder: 1, IsDefault: true, IsActive: true},
		{ID: statusReviewing, Slug: models.SlugReviewing, Name: "In Review", SortOrder: 2, IsActive: true},
		{ID: statusApproved, Slug: models.SlugApproved, Name: "Approved", SortOrder: 3, IsActive: true},
		{ID: statusCompleted, Slug: models.SlugCompleted, Name: "Completed", SortOrder: 4, IsActive: true, IsFinal: true},
	}
}

func fixtureEventTypes() []models.EventType {
	return []models.EventType{
		{ID: typeParty, Slug: "christmas-party", Name: "Christmas Party", DurationMinutes: 120, BufferBeforeMinutes: 30, BufferAfterMinutes: 30, IsActive: true, SortOrder: 1},
		{ID: typeVisit, Slug: "nikolaus-visit", Name: "Nikolaus Visit", DurationMinutes: 15, BufferAfterMinutes: 15, IsActive: true, SortOrder: 2},
		{ID: typeRetire, Slug: "summer-fest", Name: "Summer Fest", DurationMinutes: 60, IsActive: false, SortOrder: 3},
	}
}

func fixtureUsers() []models.User {
	return []models.User{
		{ID: userGreta, Name: "Greta", Email: "greta@example.com", IsActive: true, IsAdmin: true},
		{ID: userHans, Name: "Hans", Email: "hans@example.com", IsActive: true},
	}
}

func utc(day, hour, minute int) time.Time {
	return time.Date(2024, 12, day, hour, minute, 0, 0, time.UTC)
}
