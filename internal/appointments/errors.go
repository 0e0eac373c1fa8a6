package appointments

import "errors"

// InvalidDateMessage is the client-facing text for a malformed appointment_date.
const InvalidDateMessage = "Invalid date format. Use YYYY-MM-DD"

// ErrInvalidDate is returned when appointment_date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("appointments: invalid date format")

// ErrMissingField is returned when a required text field is blank.
var ErrMissingField = errors.New("appointments: missing required field")
