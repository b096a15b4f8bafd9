package timeslot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tavolina/internal/domain"
	"tavolina/internal/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// defaultSlots is the catalog seeded for a fresh install: lunch and dinner
// services at half-hour steps. Seeding never alters slots that already exist.
var defaultSlots = []domain.TimeSlot{
	{Time: "12:00", MaxCapacity: 40, Duration: 90, DisplayOrder: 10},
	{Time: "12:30", MaxCapacity: 40, Duration: 90, DisplayOrder: 20},
	{Time: "13:00", MaxCapacity: 40, Duration: 90, DisplayOrder: 30},
	{Time: "13:30", MaxCapacity: 30, Duration: 90, DisplayOrder: 40},
	{Time: "18:30", MaxCapacity: 40, Duration: 120, DisplayOrder: 50},
	{Time: "19:00", MaxCapacity: 50, Duration: 120, DisplayOrder: 60},
	{Time: "19:30", MaxCapacity: 50, Duration: 120, DisplayOrder: 70},
	{Time: "20:00", MaxCapacity: 50, Duration: 120, DisplayOrder: 80},
	{Time: "20:30", MaxCapacity: 40, Duration: 120, DisplayOrder: 90},
	{Time: "21:00", MaxCapacity: 30, Duration: 120, DisplayOrder: 100},
	{Time: "21:30", MaxCapacity: 20, Duration: 90, DisplayOrder: 110},
}

// Service owns the time-slot catalog, per-weekday capacity overrides and the
// accept/reject decision for prospective reservations.
type Service struct {
	slots          TimeSlotStore
	reservations   ReservationReader
	allowPastDates bool
	log            *zap.Logger
}

func NewService(slots TimeSlotStore, reservations ReservationReader, allowPastDates bool, log *zap.Logger) *Service {
	return &Service{
		slots:          slots,
		reservations:   reservations,
		allowPastDates: allowPastDates,
		log:            log,
	}
}

func (s *Service) ListTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	return s.slots.List(ctx)
}

// parseDate interprets the string as a local calendar date. The weekday an
// override applies to must come from the local calendar, not UTC, or bookings
// near midnight pick the wrong override.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

func effectiveCapacity(slot *domain.TimeSlot, dayOfWeek int) int {
	if o := slot.ActiveOverrideFor(dayOfWeek); o != nil {
		return o.MaxCapacity
	}
	return slot.MaxCapacity
}

// CheckSlotAvailability computes the capacity picture for one slot on one
// date. It never fails: a malformed slot or an unreadable bookings total
// degrades to "no availability" so a batch computation over many slots
// keeps going.
func (s *Service) CheckSlotAvailability(ctx context.Context, slot domain.TimeSlot, date time.Time) domain.SlotAvailability {
	capacity := effectiveCapacity(&slot, int(date.Weekday()))
	if capacity <= 0 {
		s.log.Warn("slot has no usable capacity",
			zap.Int64("slot_id", slot.ID),
			zap.String("time", slot.Time))
		return domain.SlotAvailability{}
	}

	booked, err := s.reservations.SumGuests(ctx, date.Format(dateLayout), slot.Time)
	if err != nil {
		s.log.Warn("booked total unavailable",
			zap.String("time", slot.Time),
			zap.Error(err))
		return domain.SlotAvailability{}
	}

	available := capacity - booked
	if available < 0 {
		available = 0
	}

	return domain.SlotAvailability{
		IsAvailable:       available > 0,
		EffectiveCapacity: capacity,
		CurrentBookings:   booked,
		AvailableCapacity: available,
	}
}

// GetAvailableSlots returns the bookable slots for a calendar date in
// catalog order. Inactive slots and slots without remaining capacity are
// excluded.
func (s *Service) GetAvailableSlots(ctx context.Context, dateStr string) ([]AvailableSlot, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, dateStr)
	}

	slots, err := s.slots.ListActiveForDay(ctx, int(date.Weekday()))
	if err != nil {
		return nil, err
	}
	metrics.IncAvailabilityCheck()

	out := make([]AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		a := s.CheckSlotAvailability(ctx, slot, date)
		if !a.IsAvailable {
			continue
		}
		out = append(out, AvailableSlot{
			ID:                slot.ID,
			Time:              slot.Time,
			MaxCapacity:       a.EffectiveCapacity,
			Duration:          slot.Duration,
			DisplayOrder:      slot.DisplayOrder,
			CurrentBookings:   a.CurrentBookings,
			AvailableCapacity: a.AvailableCapacity,
		})
	}
	return out, nil
}

// ValidateReservation decides whether a party of the given size fits the
// slot at the exact time string on the given date. Business rejections come
// back as a verdict, never as an error; only malformed input and storage
// faults error out.
func (s *Service) ValidateReservation(ctx context.Context, dateStr, timeStr string, guests int) (*ValidationResult, error) {
	if guests <= 0 {
		return nil, fmt.Errorf("%w: guests must be a positive integer", ErrValidation)
	}
	if timeStr == "" {
		return nil, fmt.Errorf("%w: time is required", ErrValidation)
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, dateStr)
	}

	if !s.allowPastDates && date.Before(startOfToday()) {
		metrics.IncValidation("rejected_past_date")
		return &ValidationResult{
			IsValid: false,
			Error:   "Reservations for past dates are not allowed",
		}, nil
	}

	slot, err := s.slots.GetActiveByTime(ctx, timeStr)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		metrics.IncValidation("rejected_not_found")
		return &ValidationResult{
			IsValid: false,
			Error:   fmt.Sprintf("No time slot found for %s", timeStr),
		}, nil
	}

	a := s.CheckSlotAvailability(ctx, *slot, date)
	if !a.IsAvailable {
		metrics.IncValidation("rejected_full")
		return &ValidationResult{
			IsValid: false,
			Error:   "This time slot is fully booked",
		}, nil
	}
	if a.AvailableCapacity < guests {
		metrics.IncValidation("rejected_capacity")
		return &ValidationResult{
			IsValid:           false,
			Error:             fmt.Sprintf("Insufficient capacity: %d seats available, %d requested", a.AvailableCapacity, guests),
			AvailableCapacity: &a.AvailableCapacity,
			MaxCapacity:       &a.EffectiveCapacity,
		}, nil
	}

	metrics.IncValidation("accepted")
	return &ValidationResult{
		IsValid:           true,
		AvailableCapacity: &a.AvailableCapacity,
		MaxCapacity:       &a.EffectiveCapacity,
	}, nil
}

// SetCapacityOverride upserts the override for a (slot, weekday) pair and
// always reactivates it.
func (s *Service) SetCapacityOverride(ctx context.Context, timeSlotID int64, dayOfWeek, maxCapacity int) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be 0..6", ErrValidation)
	}
	if maxCapacity <= 0 {
		return fmt.Errorf("%w: maxCapacity must be a positive integer", ErrValidation)
	}
	if _, err := s.slots.GetByID(ctx, timeSlotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.slots.UpsertOverride(ctx, timeSlotID, dayOfWeek, maxCapacity)
}

// RemoveCapacityOverride hard-deletes the override; availability falls back
// to the slot default for that weekday.
func (s *Service) RemoveCapacityOverride(ctx context.Context, timeSlotID int64, dayOfWeek int) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be 0..6", ErrValidation)
	}
	return s.slots.DeleteOverride(ctx, timeSlotID, dayOfWeek)
}

// SeedDefaultSlots creates any catalog defaults whose time string is not
// yet taken and returns only the newly created rows. Running it twice is a
// no-op the second time.
func (s *Service) SeedDefaultSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	created := make([]domain.TimeSlot, 0, len(defaultSlots))
	for _, def := range defaultSlots {
		slot := def
		slot.IsActive = true
		ok, err := s.slots.CreateIfTimeAbsent(ctx, &slot)
		if err != nil {
			return nil, err
		}
		if ok {
			created = append(created, slot)
		}
	}
	return created, nil
}

func (s *Service) CreateSlot(ctx context.Context, req CreateTimeSlotRequest) (*domain.TimeSlot, error) {
	slot := domain.TimeSlot{
		Time:         req.Time,
		MaxCapacity:  req.MaxCapacity,
		Duration:     req.Duration,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	ok, err := s.slots.CreateIfTimeAbsent(ctx, &slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: a time slot for %s already exists", ErrValidation, req.Time)
	}
	return &slot, nil
}

func (s *Service) UpdateSlot(ctx context.Context, req UpdateTimeSlotRequest) (*domain.TimeSlot, error) {
	slot, err := s.slots.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Time != nil {
		slot.Time = *req.Time
	}
	if req.MaxCapacity != nil {
		slot.MaxCapacity = *req.MaxCapacity
	}
	if req.Duration != nil {
		slot.Duration = *req.Duration
	}
	if req.DisplayOrder != nil {
		slot.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	if err := s.slots.Save(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *Service) DeleteSlot(ctx context.Context, id int64) error {
	if _, err := s.slots.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.slots.Delete(ctx, id)
}
