package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
	ReservationNoShow    ReservationStatus = "no_show"
)

// CountsTowardCapacity reports whether a reservation in this status
// consumes seats. Terminal statuses free their capacity.
func (s ReservationStatus) CountsTowardCapacity() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// Reservation is a party booked against a time slot. Date is the calendar
// day as "2006-01-02" and Time matches a TimeSlot.Time exactly.
type Reservation struct {
	ID     int64             `json:"id" gorm:"primaryKey"`
	Date   string            `json:"date" gorm:"size:10;index:idx_reservations_date_time" validate:"required"`
	Time   string            `json:"time" gorm:"size:5;index:idx_reservations_date_time" validate:"required"`
	Guests int               `json:"guests" validate:"required,gt=0"`
	Status ReservationStatus `json:"status" gorm:"size:20;index"`

	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	Notes         string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
