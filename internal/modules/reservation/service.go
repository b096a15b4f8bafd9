package reservation

import (
	"context"
	"errors"
	"fmt"

	"tavolina/internal/domain"
	"tavolina/internal/metrics"
	"tavolina/internal/modules/timeslot"
	"tavolina/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxCreateAttempts bounds the optimistic retry loop around the atomic
// insert. Conflicts are rare (same date+time, same instant), so a small
// bound is enough.
const maxCreateAttempts = 3

type Service struct {
	store ReservationStore
	slots *timeslot.Service
	log   *zap.Logger
}

func NewService(store ReservationStore, slots *timeslot.Service, log *zap.Logger) *Service {
	return &Service{
		store: store,
		slots: slots,
		log:   log,
	}
}

// Create validates the request against slot capacity and persists it. The
// advisory validation and the insert are distinct reads, so the store call
// re-checks capacity inside its transaction; losing that race surfaces as a
// fresh rejection verdict, never as a double booking.
//
// The returned verdict is non-nil exactly when the reservation was refused
// for a business reason the caller should show to the guest.
func (s *Service) Create(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, *timeslot.ValidationResult, error) {
	verdict, err := s.slots.ValidateReservation(ctx, req.Date, req.Time, req.Guests)
	if err != nil {
		if errors.Is(err, timeslot.ErrValidation) {
			return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, nil, err
	}
	if !verdict.IsValid {
		metrics.IncReservationCreated("rejected")
		return nil, verdict, nil
	}

	res := &domain.Reservation{
		Date:          req.Date,
		Time:          req.Time,
		Guests:        req.Guests,
		Status:        domain.ReservationPending,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	}
	capacity := *verdict.MaxCapacity

	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		err := s.store.CreateWithCapacityCheck(ctx, res, capacity)
		if err == nil {
			metrics.IncReservationCreated("created")
			s.log.Info("reservation created",
				zap.Int64("id", res.ID),
				zap.String("date", res.Date),
				zap.String("time", res.Time),
				zap.Int("guests", res.Guests))
			return res, nil, nil
		}

		if errors.Is(err, repository.ErrCapacityExceeded) {
			fresh, verr := s.slots.ValidateReservation(ctx, req.Date, req.Time, req.Guests)
			if verr != nil {
				return nil, nil, verr
			}
			if fresh.IsValid {
				// Capacity freed between the check and now; try again.
				lastErr = nil
				continue
			}
			metrics.IncReservationCreated("rejected")
			return nil, fresh, nil
		}

		if repository.IsSerializationFailure(err) {
			s.log.Warn("reservation insert conflicted, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err))
			lastErr = err
			continue
		}

		return nil, nil, err
	}

	if lastErr != nil {
		return nil, nil, fmt.Errorf("create reservation: %w", lastErr)
	}
	metrics.IncReservationCreated("rejected")
	return nil, &timeslot.ValidationResult{
		IsValid: false,
		Error:   "This time slot is fully booked",
	}, nil
}

func (s *Service) ListByDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	return s.store.ListByDate(ctx, date)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

// allowedTransitions encodes the reservation lifecycle. Terminal statuses
// (cancelled, completed, no_show) accept no further changes.
var allowedTransitions = map[domain.ReservationStatus][]domain.ReservationStatus{
	domain.ReservationPending:   {domain.ReservationConfirmed, domain.ReservationCancelled, domain.ReservationNoShow},
	domain.ReservationConfirmed: {domain.ReservationCompleted, domain.ReservationCancelled, domain.ReservationNoShow},
}

// UpdateStatus moves a reservation through its lifecycle. Dropping out of
// pending/confirmed frees the party's seats implicitly, because terminal
// statuses no longer count toward the booked total.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	switch status {
	case domain.ReservationConfirmed, domain.ReservationCancelled,
		domain.ReservationCompleted, domain.ReservationNoShow:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	res, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok := false
	for _, next := range allowedTransitions[res.Status] {
		if next == status {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, res.Status, status)
	}

	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
