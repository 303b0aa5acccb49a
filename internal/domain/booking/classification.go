package booking

import "fmt"

// Classification is the read-time category of a booking. It is derived from
// the stored status and the current date and never persisted.
type Classification string

const (
	ClassUpcoming  Classification = "confirmed"
	ClassCompleted Classification = "completed"
	ClassCancelled Classification = "cancelled"
)

// Classify derives the classification of a booking with the given stored
// status and departure date, as seen on today.
//
// A booking departing today is still upcoming.
func Classify(status Status, departure, today Date) Classification {
	switch {
	case status == StatusCancelled:
		return ClassCancelled
	case departure.Before(today):
		return ClassCompleted
	default:
		return ClassUpcoming
	}
}

// StatusFilter selects bookings by classification in a list query.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterConfirmed StatusFilter = "confirmed"
	FilterCancelled StatusFilter = "cancelled"
	FilterCompleted StatusFilter = "completed"
)

// ParseStatusFilter accepts the four recognized filter values. The empty
// string is treated as "all".
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(s); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterConfirmed, FilterCancelled, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("status must be one of: confirmed, cancelled, completed, all")
	}
}

// normalize maps a filter value to the classification it selects. ok is
// false for "all" (and empty), meaning no filtering.
//
// Any value other than all, confirmed or cancelled selects completed
// bookings. Callers that need strict input go through ParseStatusFilter.
func (f StatusFilter) normalize() (class Classification, ok bool) {
	switch f {
	case "", FilterAll:
		return "", false
	case FilterCancelled:
		return ClassCancelled, true
	case FilterConfirmed:
		return ClassUpcoming, true
	default:
		return ClassCompleted, true
	}
}

// Classification returns the read-time classification of b on today.
func (b *Booking) Classification(today Date) Classification {
	return Classify(b.status, b.departureDate, today)
}
