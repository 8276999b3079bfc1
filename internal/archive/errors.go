package archive

import (
	"errors"
	"fmt"
)

// ErrNoDestination is returned when no destination folder name was supplied.
// This is a precondition failure: it is reported before any remote call is
// made, so no partial side effects exist.
var ErrNoDestination = errors.New("destination folder name is required")

// ErrNoMessages is returned when an archive request selects neither a
// message nor a thread.
var ErrNoMessages = errors.New("no message or thread selected")

// DestinationError reports that the destination folder name has no entry in
// the session catalog. The operation performs no uploads; the user must
// re-enter the folder name.
type DestinationError struct {
	Name string
}

func (e *DestinationError) Error() string {
	return fmt.Sprintf("destination folder %q not found", e.Name)
}

// IsDestinationMissing reports whether err is a destination resolution
// failure.
func IsDestinationMissing(err error) bool {
	var de *DestinationError
	return errors.As(err, &de)
}
