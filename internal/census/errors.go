package census

import (
	"errors"
	"fmt"
)

var (
	ErrAgeTooLow        = errors.New("age too low")
	ErrAgeUnclassified  = errors.New("age does not fall in a supported bracket")
	ErrInvalidBaseValue = errors.New("percent change base value is zero")
	// ErrNotFound is returned by a RecordFinder on a lookup miss.
	ErrNotFound = errors.New("census record not found")
)

// RecordNotFoundError reports a failed lookup for one race and year. Err is
// whatever the finder returned.
type RecordNotFoundError struct {
	Race Race
	Year int
	Err  error
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("no data for race %s in year %d", e.Race, e.Year)
}

func (e *RecordNotFoundError) Unwrap() error { return e.Err }

func (e *RecordNotFoundError) Is(target error) bool { return target == ErrNotFound }
