package reservation

import (
	"context"

	"tavolina/internal/domain"
)

// ReservationStore defines the persistence operations for reservations.
// CreateWithCapacityCheck must perform the booked-total read and the insert
// atomically; it is the write half of the no-overbooking guarantee.
type ReservationStore interface {
	CreateWithCapacityCheck(ctx context.Context, res *domain.Reservation, effectiveCapacity int) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByDate(ctx context.Context, date string) ([]domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
}
