package synonym

import (
	"errors"
	"fmt"
)

// ErrCollaboratorUnavailable matches every *CollaboratorUnavailableError.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

// ErrCircuitOpen is wrapped when a Breaker refuses a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CollaboratorUnavailableError reports that an external similarity service
// failed. Local lexicon queries are unaffected.
type CollaboratorUnavailableError struct {
	Collaborator string
	Cause        error
}

func (e *CollaboratorUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Cause)
}

func (e *CollaboratorUnavailableError) Unwrap() error { return e.Cause }

func (e *CollaboratorUnavailableError) Is(target error) bool {
	return target == ErrCollaboratorUnavailable
}

func unavailable(name string, err error) error {
	var cu *CollaboratorUnavailableError
	if errors.As(err, &cu) {
		return err
	}
	return &CollaboratorUnavailableError{Collaborator: name, Cause: err}
}
