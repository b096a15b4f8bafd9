package timeslot

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("time slot not found")
)
