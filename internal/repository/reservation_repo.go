package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"tavolina/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrCapacityExceeded is returned when an insert would push the booked
// guest total for a (date, time) past the slot's effective capacity.
var ErrCapacityExceeded = errors.New("slot capacity exceeded")

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	Date          string    `gorm:"column:date"`
	Time          string    `gorm:"column:time"`
	Guests        int       `gorm:"column:guests"`
	Status        string    `gorm:"column:status"`
	CustomerName  string    `gorm:"column:customer_name"`
	CustomerPhone *string   `gorm:"column:customer_phone"`
	CustomerEmail *string   `gorm:"column:customer_email"`
	Notes         *string   `gorm:"column:notes"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	str := func(p *string) string {
		if p != nil {
			return *p
		}
		return ""
	}

	return &domain.Reservation{
		ID:            m.ID,
		Date:          m.Date,
		Time:          m.Time,
		Guests:        m.Guests,
		Status:        domain.ReservationStatus(m.Status),
		CustomerName:  m.CustomerName,
		CustomerPhone: str(m.CustomerPhone),
		CustomerEmail: str(m.CustomerEmail),
		Notes:         str(m.Notes),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toReservationModel(r *domain.Reservation) reservationModel {
	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		v := s
		return &v
	}

	return reservationModel{
		ID:            r.ID,
		Date:          r.Date,
		Time:          r.Time,
		Guests:        r.Guests,
		Status:        string(r.Status),
		CustomerName:  r.CustomerName,
		CustomerPhone: opt(r.CustomerPhone),
		CustomerEmail: opt(r.CustomerEmail),
		Notes:         opt(r.Notes),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

const sumGuestsQuery = `
SELECT COALESCE(SUM(guests), 0)
FROM reservations
WHERE date = ?
  AND time = ?
  AND status IN ('pending', 'confirmed')
`

// SumGuests returns the booked guest total for a calendar date and slot
// time, counting only statuses that still consume capacity.
func (r *ReservationRepository) SumGuests(ctx context.Context, date, timeOfDay string) (int, error) {
	var total int
	tx := r.db.WithContext(ctx).Raw(sumGuestsQuery, date, timeOfDay).Scan(&total)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return total, nil
}

// CreateWithCapacityCheck re-reads the booked total and inserts in one
// serializable transaction, so two concurrent requests that each fit on
// their own cannot jointly exceed capacity. Callers should retry on
// IsSerializationFailure.
func (r *ReservationRepository) CreateWithCapacityCheck(ctx context.Context, res *domain.Reservation, effectiveCapacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booked int
		if err := tx.Raw(sumGuestsQuery, res.Date, res.Time).Scan(&booked).Error; err != nil {
			return err
		}
		if booked+res.Guests > effectiveCapacity {
			return ErrCapacityExceeded
		}

		m := toReservationModel(res)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*res = *toDomainReservation(m)
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// IsSerializationFailure reports whether err is a transient transaction
// conflict worth retrying (PostgreSQL serialization failure or deadlock,
// SQLite write contention).
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainReservation(m), nil
}

// ListByDate returns all reservations for a calendar date, any status,
// ordered by slot time.
func (r *ReservationRepository) ListByDate(ctx context.Context, date string) ([]domain.Reservation, error) {
	var rows []reservationModel
	tx := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("time ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	return r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ?", id).
		Update("status", string(status)).Error
}
