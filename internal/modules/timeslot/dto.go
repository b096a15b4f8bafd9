package timeslot

type CreateTimeSlotRequest struct {
	Time         string `json:"time" validate:"required"`
	MaxCapacity  int    `json:"maxCapacity" validate:"required,gt=0"`
	Duration     int    `json:"duration" validate:"gte=0"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     *bool  `json:"isActive"`
}

type UpdateTimeSlotRequest struct {
	ID           int64   `json:"id" validate:"required"`
	Time         *string `json:"time"`
	MaxCapacity  *int    `json:"maxCapacity" validate:"omitempty,gt=0"`
	Duration     *int    `json:"duration" validate:"omitempty,gte=0"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

type DeleteTimeSlotRequest struct {
	ID int64 `json:"id" validate:"required"`
}

type SetOverrideRequest struct {
	TimeSlotID  int64 `json:"timeSlotId" validate:"required"`
	DayOfWeek   int   `json:"dayOfWeek" validate:"gte=0,lte=6"`
	MaxCapacity int   `json:"maxCapacity" validate:"required,gt=0"`
}

type RemoveOverrideRequest struct {
	TimeSlotID int64 `json:"timeSlotId" validate:"required"`
	DayOfWeek  int   `json:"dayOfWeek" validate:"gte=0,lte=6"`
}

// AvailableSlot is the wire shape for a bookable slot on a given date.
// MaxCapacity carries the effective capacity (override applied), not the
// slot's static default; the site's booking widget relies on that.
type AvailableSlot struct {
	ID                int64  `json:"id"`
	Time              string `json:"time"`
	MaxCapacity       int    `json:"maxCapacity"`
	Duration          int    `json:"duration"`
	DisplayOrder      int    `json:"displayOrder"`
	CurrentBookings   int    `json:"currentBookings"`
	AvailableCapacity int    `json:"availableCapacity"`
}

// ValidationResult is the accept/reject verdict for a prospective
// reservation. Rejections are data, not errors; the frontend renders
// Error verbatim.
type ValidationResult struct {
	IsValid           bool   `json:"isValid"`
	Error             string `json:"error,omitempty"`
	AvailableCapacity *int   `json:"availableCapacity,omitempty"`
	MaxCapacity       *int   `json:"maxCapacity,omitempty"`
}
