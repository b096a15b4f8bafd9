package reservation

type CreateReservationRequest struct {
	Date          string `json:"date" validate:"required"`
	Time          string `json:"time" validate:"required"`
	Guests        int    `json:"guests" validate:"required,gt=0"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	Notes         string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
