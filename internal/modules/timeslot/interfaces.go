package timeslot

import (
	"context"

	"tavolina/internal/domain"
)

// TimeSlotStore defines the persistence operations for the slot catalog
// and its capacity overrides.
type TimeSlotStore interface {
	List(ctx context.Context) ([]domain.TimeSlot, error)
	ListActiveForDay(ctx context.Context, dayOfWeek int) ([]domain.TimeSlot, error)
	GetActiveByTime(ctx context.Context, timeOfDay string) (*domain.TimeSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	Create(ctx context.Context, slot *domain.TimeSlot) error
	Save(ctx context.Context, slot *domain.TimeSlot) error
	Delete(ctx context.Context, id int64) error
	CreateIfTimeAbsent(ctx context.Context, slot *domain.TimeSlot) (bool, error)
	UpsertOverride(ctx context.Context, timeSlotID int64, dayOfWeek, maxCapacity int) error
	DeleteOverride(ctx context.Context, timeSlotID int64, dayOfWeek int) error
}

// ReservationReader exposes the booked-guests aggregate the availability
// arithmetic consumes. Writes stay with the reservation module.
type ReservationReader interface {
	SumGuests(ctx context.Context, date, timeOfDay string) (int, error)
}
