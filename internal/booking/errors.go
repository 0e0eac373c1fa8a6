package booking

import "errors"

var (
	// ErrInvalidDate is returned when a date answer is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("booking: invalid date")
	// ErrPastDate is returned when a date answer is before now.
	ErrPastDate = errors.New("booking: date is in the past")
	// ErrUnknownStage signals a stage outside the closed set, or an answer
	// delivered while no question is pending.
	ErrUnknownStage = errors.New("booking: unknown stage")
	// ErrIncompleteDraft is returned when finalizing a draft with missing fields.
	ErrIncompleteDraft = errors.New("booking: incomplete draft")
)
