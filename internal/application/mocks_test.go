package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/booking"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/event"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/rating"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/transaction"
	"github.com/sarali19/Eventful-Event-management-platform/internal/domain/user"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventRepository implements event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetStats(ctx context.Context, id string) (*event.Stats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Stats), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*event.Event, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListByParticipant(ctx context.Context, userID string) ([]*event.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, e *event.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) UpdateCounters(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	args := m.Called(ctx, tx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDTx(ctx context.Context, tx transaction.Tx, id string) (*user.User, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockParticipantRepository implements booking.Repository
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Exists(ctx context.Context, tx transaction.Tx, eventID, userID string) (bool, error) {
	args := m.Called(ctx, tx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockParticipantRepository) Add(ctx context.Context, tx transaction.Tx, p *booking.Participant) error {
	args := m.Called(ctx, tx, p)
	return args.Error(0)
}

func (m *MockParticipantRepository) ListByEvent(ctx context.Context, eventID string) ([]*booking.Participant, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Participant), args.Error(1)
}

func (m *MockParticipantRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

// MockRatingRepository implements rating.Repository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) FindByUserAndEvent(ctx context.Context, tx transaction.Tx, userID, eventID string) (*rating.Rating, error) {
	args := m.Called(ctx, tx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rating.Rating), args.Error(1)
}

func (m *MockRatingRepository) Upsert(ctx context.Context, tx transaction.Tx, r *rating.Rating) (bool, error) {
	args := m.Called(ctx, tx, r)
	return args.Bool(0), args.Error(1)
}

func (m *MockRatingRepository) ListScoresByEvent(ctx context.Context, tx transaction.Tx, eventID string) ([]int, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockRatingRepository) ListByEvent(ctx context.Context, eventID string) ([]*rating.Rating, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByUser(ctx context.Context, userID string) ([]*rating.Rating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

// MockStatsCache implements StatsCache
type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context, eventID string) (*event.Stats, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Stats), args.Error(1)
}

func (m *MockStatsCache) Set(ctx context.Context, stats *event.Stats, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

func (m *MockStatsCache) Invalidate(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// MockPublisher implements Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

// MockEventLocker implements EventLocker
type MockEventLocker struct {
	mock.Mock
}

func (m *MockEventLocker) LockEvent(ctx context.Context, eventID string) (Unlocker, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Unlocker), args.Error(1)
}

// MockUnlocker implements Unlocker
type MockUnlocker struct {
	mock.Mock
}

func (m *MockUnlocker) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// === Fixtures ===

const (
	testEventID     = "7b1e4a52-3f0c-4c8e-9a41-0d2f6a9b1c01"
	testUserID      = "2c9d7e10-5b6a-4f3e-8d21-9e0a1b2c3d04"
	testOtherUserID = "9f8e7d6c-5b4a-4392-8170-6a5b4c3d2e1f"
	testOrganizerID = "4a3b2c1d-0e9f-4877-a665-5d4c3b2a1908"
)

func newTestEvent(capacity, occupancy int) *event.Event {
	e := event.NewEvent(testOrganizerID, event.Details{
		Title:     "テストイベント",
		EventDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "12:00",
		City:      "Tunis",
		Location:  "Cité de la Culture",
		Category:  event.CategoryConference,
	}, capacity)
	e.ID = testEventID
	e.Occupancy = occupancy
	return e
}

func newTestUser(id string, role user.Role) *user.User {
	u := user.NewUser("テストユーザー", "user@example.com", "hash", role)
	u.ID = id
	return u
}
