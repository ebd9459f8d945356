package prayer

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidAngleDomain means the sun never reaches the required
	// depression angle on that day at that latitude.
	ErrInvalidAngleDomain = errors.New("sun does not reach the required angle")
	// ErrInvalidDate is returned for a month or day outside the calendar.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidCoordinates is returned for latitude or longitude out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// AngleDomainError lists the prayers that could not be computed. It
// matches ErrInvalidAngleDomain with errors.Is.
type AngleDomainError struct {
	Prayers []Name
}

func (e *AngleDomainError) Error() string {
	names := make([]string, len(e.Prayers))
	for i, n := range e.Prayers {
		names[i] = n.Key()
	}
	return ErrInvalidAngleDomain.Error() + " for " + strings.Join(names, ", ")
}

func (e *AngleDomainError) Is(target error) bool {
	return target == ErrInvalidAngleDomain
}

// Has reports whether n is among the failed prayers.
func (e *AngleDomainError) Has(n Name) bool {
	for _, p := range e.Prayers {
		if p == n {
			return true
		}
	}
	return false
}
