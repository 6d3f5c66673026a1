package readingplan

import "errors"

// ErrInvalidAvailableTime is returned when the time budget is zero or negative.
var ErrInvalidAvailableTime = errors.New("available time must be greater than zero")
