package domain

import "time"

// TimeSlot is a bookable point in the day ("19:00"), not a range.
// Duration is informational only; reservations match on the exact time string.
type TimeSlot struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	Time         string `json:"time" gorm:"uniqueIndex;size:5" validate:"required"`
	MaxCapacity  int    `json:"maxCapacity" validate:"required,gt=0"`
	Duration     int    `json:"duration"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"isActive"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Overrides []CapacityOverride `json:"overrides,omitempty" gorm:"foreignKey:TimeSlotID"`
}

func (TimeSlot) TableName() string { return "time_slots" }

// CapacityOverride replaces a slot's default capacity for one weekday.
// DayOfWeek uses 0=Sunday..6=Saturday. At most one active override may
// exist per (slot, weekday) pair; the unique index enforces one row.
type CapacityOverride struct {
	ID          int64 `json:"id" gorm:"primaryKey"`
	TimeSlotID  int64 `json:"timeSlotId" gorm:"uniqueIndex:idx_slot_day_override"`
	DayOfWeek   int   `json:"dayOfWeek" gorm:"uniqueIndex:idx_slot_day_override" validate:"gte=0,lte=6"`
	MaxCapacity int   `json:"maxCapacity" validate:"required,gt=0"`
	IsActive    bool  `json:"isActive"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CapacityOverride) TableName() string { return "time_slot_capacity_overrides" }

// ActiveOverrideFor returns the active override for the given weekday, if any.
func (s *TimeSlot) ActiveOverrideFor(dayOfWeek int) *CapacityOverride {
	for i := range s.Overrides {
		o := &s.Overrides[i]
		if o.DayOfWeek == dayOfWeek && o.IsActive {
			return o
		}
	}
	return nil
}

// SlotAvailability is the computed capacity picture for one slot on one date.
type SlotAvailability struct {
	IsAvailable       bool `json:"isAvailable"`
	EffectiveCapacity int  `json:"effectiveCapacity"`
	CurrentBookings   int  `json:"currentBookings"`
	AvailableCapacity int  `json:"availableCapacity"`
}
