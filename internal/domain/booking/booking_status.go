package booking

import "fmt"

// Status is the persisted state of a booking. Completed is never stored; it
// is derived at query time, see Classify.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
var validTransitions = map[Status][]Status{
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized stored status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the booking can be cancelled from this status.
func (s Status) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a stored Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
