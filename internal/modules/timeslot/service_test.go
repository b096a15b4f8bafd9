package timeslot

import (
	"context"
	"errors"
	"testing"
	"time"

	"tavolina/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Mock stores

type MockTimeSlotStore struct {
	mock.Mock
}

func (m *MockTimeSlotStore) List(ctx context.Context) ([]domain.TimeSlot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

func (m *MockTimeSlotStore) ListActiveForDay(ctx context.Context, dayOfWeek int) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

func (m *MockTimeSlotStore) GetActiveByTime(ctx context.Context, timeOfDay string) (*domain.TimeSlot, error) {
	args := m.Called(ctx, timeOfDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeSlot), args.Error(1)
}

func (m *MockTimeSlotStore) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeSlot), args.Error(1)
}

func (m *MockTimeSlotStore) Create(ctx context.Context, slot *domain.TimeSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockTimeSlotStore) Save(ctx context.Context, slot *domain.TimeSlot) error {
	args := m.Called(ctx, slot)
	return args.Error(0)
}

func (m *MockTimeSlotStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTimeSlotStore) CreateIfTimeAbsent(ctx context.Context, slot *domain.TimeSlot) (bool, error) {
	args := m.Called(ctx, slot)
	return args.Bool(0), args.Error(1)
}

func (m *MockTimeSlotStore) UpsertOverride(ctx context.Context, timeSlotID int64, dayOfWeek, maxCapacity int) error {
	args := m.Called(ctx, timeSlotID, dayOfWeek, maxCapacity)
	return args.Error(0)
}

func (m *MockTimeSlotStore) DeleteOverride(ctx context.Context, timeSlotID int64, dayOfWeek int) error {
	args := m.Called(ctx, timeSlotID, dayOfWeek)
	return args.Error(0)
}

type MockReservationReader struct {
	mock.Mock
}

func (m *MockReservationReader) SumGuests(ctx context.Context, date, timeOfDay string) (int, error) {
	args := m.Called(ctx, date, timeOfDay)
	return args.Int(0), args.Error(1)
}

func newTestService(slots TimeSlotStore, reservations ReservationReader) *Service {
	return NewService(slots, reservations, false, zap.NewNop())
}

var (
	mondayDate  = upcoming(time.Monday)
	tuesdayDate = upcoming(time.Tuesday)
)

// upcoming returns the next future date falling on the given weekday.
func upcoming(w time.Weekday) string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != w {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(dateLayout)
}

func TestCheckSlotAvailability_OverridePrecedence(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	reader.On("SumGuests", mock.Anything, mock.Anything, "19:00").Return(0, nil)

	slot := domain.TimeSlot{
		ID:          1,
		Time:        "19:00",
		MaxCapacity: 20,
		IsActive:    true,
		Overrides: []domain.CapacityOverride{
			{TimeSlotID: 1, DayOfWeek: 1, MaxCapacity: 5, IsActive: true},
		},
	}
	service := newTestService(slots, reader)

	monday, err := parseDate(mondayDate)
	assert.NoError(t, err)
	tuesday, err := parseDate(tuesdayDate)
	assert.NoError(t, err)

	a := service.CheckSlotAvailability(context.Background(), slot, monday)
	assert.Equal(t, 5, a.EffectiveCapacity)

	a = service.CheckSlotAvailability(context.Background(), slot, tuesday)
	assert.Equal(t, 20, a.EffectiveCapacity)
}

func TestCheckSlotAvailability_InactiveOverrideFallsBack(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:00").Return(0, nil)

	slot := domain.TimeSlot{
		ID:          1,
		Time:        "19:00",
		MaxCapacity: 20,
		IsActive:    true,
		Overrides: []domain.CapacityOverride{
			{TimeSlotID: 1, DayOfWeek: 1, MaxCapacity: 5, IsActive: false},
		},
	}
	service := newTestService(slots, reader)

	monday, _ := parseDate(mondayDate)
	a := service.CheckSlotAvailability(context.Background(), slot, monday)
	assert.Equal(t, 20, a.EffectiveCapacity)
}

func TestCheckSlotAvailability_Arithmetic(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:00").Return(22, nil)

	slot := domain.TimeSlot{ID: 1, Time: "19:00", MaxCapacity: 30, IsActive: true}
	service := newTestService(slots, reader)

	monday, _ := parseDate(mondayDate)
	a := service.CheckSlotAvailability(context.Background(), slot, monday)

	assert.True(t, a.IsAvailable)
	assert.Equal(t, 30, a.EffectiveCapacity)
	assert.Equal(t, 22, a.CurrentBookings)
	assert.Equal(t, 8, a.AvailableCapacity)
}

func TestCheckSlotAvailability_DegradesOnReaderError(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:00").Return(0, errors.New("db down"))

	slot := domain.TimeSlot{ID: 1, Time: "19:00", MaxCapacity: 30, IsActive: true}
	service := newTestService(slots, reader)

	monday, _ := parseDate(mondayDate)
	a := service.CheckSlotAvailability(context.Background(), slot, monday)

	assert.False(t, a.IsAvailable)
	assert.Equal(t, 0, a.EffectiveCapacity)
	assert.Equal(t, 0, a.AvailableCapacity)
}

func TestCheckSlotAvailability_MalformedSlot(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)

	slot := domain.TimeSlot{ID: 1, Time: "19:00", MaxCapacity: 0, IsActive: true}
	service := newTestService(slots, reader)

	monday, _ := parseDate(mondayDate)
	a := service.CheckSlotAvailability(context.Background(), slot, monday)

	assert.False(t, a.IsAvailable)
	assert.Equal(t, domain.SlotAvailability{}, a)
	reader.AssertNotCalled(t, "SumGuests", mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateReservation_SlotNotFound(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	slots.On("GetActiveByTime", mock.Anything, "19:15").Return(nil, nil)

	service := newTestService(slots, reader)

	verdict, err := service.ValidateReservation(context.Background(), mondayDate, "19:15", 2)
	assert.NoError(t, err)
	assert.False(t, verdict.IsValid)
	assert.Contains(t, verdict.Error, "19:15")
}

func TestValidateReservation_InsufficientCapacity(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	slot := &domain.TimeSlot{ID: 1, Time: "19:00", MaxCapacity: 30, IsActive: true}
	slots.On("GetActiveByTime", mock.Anything, "19:00").Return(slot, nil)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:00").Return(22, nil)

	service := newTestService(slots, reader)

	verdict, err := service.ValidateReservation(context.Background(), mondayDate, "19:00", 9)
	assert.NoError(t, err)
	assert.False(t, verdict.IsValid)
	assert.Contains(t, verdict.Error, "8")
	assert.Contains(t, verdict.Error, "9")
	assert.Equal(t, 8, *verdict.AvailableCapacity)
	assert.Equal(t, 30, *verdict.MaxCapacity)
}

func TestValidateReservation_AcceptsExactFit(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	slot := &domain.TimeSlot{ID: 1, Time: "19:00", MaxCapacity: 30, IsActive: true}
	slots.On("GetActiveByTime", mock.Anything, "19:00").Return(slot, nil)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:00").Return(22, nil)

	service := newTestService(slots, reader)

	verdict, err := service.ValidateReservation(context.Background(), mondayDate, "19:00", 8)
	assert.NoError(t, err)
	assert.True(t, verdict.IsValid)
	assert.Equal(t, 8, *verdict.AvailableCapacity)
	assert.Equal(t, 30, *verdict.MaxCapacity)
}

func TestValidateReservation_FullyBooked(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	slot := &domain.TimeSlot{ID: 1, Time: "19:00", MaxCapacity: 30, IsActive: true}
	slots.On("GetActiveByTime", mock.Anything, "19:00").Return(slot, nil)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:00").Return(30, nil)

	service := newTestService(slots, reader)

	verdict, err := service.ValidateReservation(context.Background(), mondayDate, "19:00", 2)
	assert.NoError(t, err)
	assert.False(t, verdict.IsValid)
	assert.Contains(t, verdict.Error, "fully booked")
}

func TestValidateReservation_RejectsPastDate(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	service := newTestService(slots, reader)

	verdict, err := service.ValidateReservation(context.Background(), "2020-01-06", "19:00", 2)
	assert.NoError(t, err)
	assert.False(t, verdict.IsValid)
	assert.Contains(t, verdict.Error, "past")
	slots.AssertNotCalled(t, "GetActiveByTime", mock.Anything, mock.Anything)
}

func TestValidateReservation_AllowsPastDateWhenConfigured(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	slot := &domain.TimeSlot{ID: 1, Time: "19:00", MaxCapacity: 30, IsActive: true}
	slots.On("GetActiveByTime", mock.Anything, "19:00").Return(slot, nil)
	reader.On("SumGuests", mock.Anything, "2020-01-06", "19:00").Return(0, nil)

	service := NewService(slots, reader, true, zap.NewNop())

	verdict, err := service.ValidateReservation(context.Background(), "2020-01-06", "19:00", 2)
	assert.NoError(t, err)
	assert.True(t, verdict.IsValid)
}

func TestValidateReservation_InvalidInput(t *testing.T) {
	service := newTestService(new(MockTimeSlotStore), new(MockReservationReader))

	_, err := service.ValidateReservation(context.Background(), mondayDate, "19:00", 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.ValidateReservation(context.Background(), "not-a-date", "19:00", 2)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.ValidateReservation(context.Background(), mondayDate, "", 2)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetAvailableSlots_ExcludesFullSlots(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)

	catalog := []domain.TimeSlot{
		{ID: 1, Time: "19:00", MaxCapacity: 30, Duration: 120, DisplayOrder: 10, IsActive: true},
		{ID: 2, Time: "19:30", MaxCapacity: 10, Duration: 120, DisplayOrder: 20, IsActive: true},
	}
	slots.On("ListActiveForDay", mock.Anything, 1).Return(catalog, nil)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:00").Return(12, nil)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:30").Return(10, nil)

	service := newTestService(slots, reader)

	out, err := service.GetAvailableSlots(context.Background(), mondayDate)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "19:00", out[0].Time)
	assert.Equal(t, 30, out[0].MaxCapacity)
	assert.Equal(t, 18, out[0].AvailableCapacity)
}

func TestGetAvailableSlots_AppliesOverrideToWireShape(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)

	catalog := []domain.TimeSlot{
		{
			ID: 1, Time: "19:00", MaxCapacity: 30, DisplayOrder: 10, IsActive: true,
			Overrides: []domain.CapacityOverride{
				{TimeSlotID: 1, DayOfWeek: 1, MaxCapacity: 12, IsActive: true},
			},
		},
	}
	slots.On("ListActiveForDay", mock.Anything, 1).Return(catalog, nil)
	reader.On("SumGuests", mock.Anything, mondayDate, "19:00").Return(4, nil)

	service := newTestService(slots, reader)

	out, err := service.GetAvailableSlots(context.Background(), mondayDate)
	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 12, out[0].MaxCapacity)
	assert.Equal(t, 8, out[0].AvailableCapacity)
}

func TestGetAvailableSlots_StoreErrorFailsWhole(t *testing.T) {
	slots := new(MockTimeSlotStore)
	reader := new(MockReservationReader)
	slots.On("ListActiveForDay", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	service := newTestService(slots, reader)

	_, err := service.GetAvailableSlots(context.Background(), mondayDate)
	assert.Error(t, err)
}

func TestSeedDefaultSlots_Idempotent(t *testing.T) {
	reader := new(MockReservationReader)

	first := new(MockTimeSlotStore)
	first.On("CreateIfTimeAbsent", mock.Anything, mock.Anything).Return(true, nil)
	created, err := newTestService(first, reader).SeedDefaultSlots(context.Background())
	assert.NoError(t, err)
	assert.Len(t, created, len(defaultSlots))

	second := new(MockTimeSlotStore)
	second.On("CreateIfTimeAbsent", mock.Anything, mock.Anything).Return(false, nil)
	created, err = newTestService(second, reader).SeedDefaultSlots(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, created)
}

func TestSetCapacityOverride_Validation(t *testing.T) {
	service := newTestService(new(MockTimeSlotStore), new(MockReservationReader))

	err := service.SetCapacityOverride(context.Background(), 1, 7, 10)
	assert.ErrorIs(t, err, ErrValidation)

	err = service.SetCapacityOverride(context.Background(), 1, -1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	err = service.SetCapacityOverride(context.Background(), 1, 2, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetCapacityOverride_Upserts(t *testing.T) {
	slots := new(MockTimeSlotStore)
	slot := &domain.TimeSlot{ID: 1, Time: "19:00", MaxCapacity: 30, IsActive: true}
	slots.On("GetByID", mock.Anything, int64(1)).Return(slot, nil)
	slots.On("UpsertOverride", mock.Anything, int64(1), 1, 12).Return(nil)

	service := newTestService(slots, new(MockReservationReader))

	err := service.SetCapacityOverride(context.Background(), 1, 1, 12)
	assert.NoError(t, err)
	slots.AssertExpectations(t)
}

func TestRemoveCapacityOverride(t *testing.T) {
	slots := new(MockTimeSlotStore)
	slots.On("DeleteOverride", mock.Anything, int64(1), 1).Return(nil)

	service := newTestService(slots, new(MockReservationReader))

	err := service.RemoveCapacityOverride(context.Background(), 1, 1)
	assert.NoError(t, err)
	slots.AssertExpectations(t)

	err = service.RemoveCapacityOverride(context.Background(), 1, 9)
	assert.ErrorIs(t, err, ErrValidation)
}
