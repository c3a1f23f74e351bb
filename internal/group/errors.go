package group

import (
	"errors"
	"fmt"

	"github.com/atomicstack/layerstack/internal/window"
)

// ErrTransitionActive is the panic value raised when a second transition is
// started in a group that already has one. It marks a programming error.
var ErrTransitionActive = errors.New("group: transition already active")

// TransitionError reports an animation failure. The stack mutation that
// started the transition has already been applied when it is returned.
type TransitionError struct {
	Group window.GroupID
	Op    string
	Type  window.Type
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Group, e.Op, e.Type, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// IsTransitionError reports whether err carries a *TransitionError.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
