package weekplan

import (
	"errors"
	"fmt"

	"github.com/dalemusser/lessonhub/internal/app/system/weekgrid"
)

var (
	// ErrNotFound means the week no longer exists server-side. Collaborators
	// return it (wrapped or not) from Update, Delete, Get and Duplicate.
	ErrNotFound = errors.New("lesson week not found")

	// ErrInFlight means a mutating call for the same week is still outstanding.
	ErrInFlight = errors.New("another change to this lesson week is in progress")

	// ErrTransport matches any *Error whose kind is KindTransport.
	ErrTransport = errors.New("lesson week service failed")

	// ErrUnsupported means the collaborator does not offer an optional operation.
	ErrUnsupported = errors.New("operation not supported")
)

// Kind classifies planner failures.
type Kind int

const (
	KindTransport Kind = iota
	KindValidation
	KindNotFound
	KindInFlight
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInFlight:
		return "in_flight"
	}
	return "transport"
}

// Error is returned by every Planner operation that fails. The collection is
// left untouched whenever an Error is returned.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("weekplan %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers test for ErrTransport without knowing the underlying error.
func (e *Error) Is(target error) bool {
	return target == ErrTransport && e.Kind == KindTransport
}

// Validation returns the field-level details when Kind is KindValidation.
func (e *Error) Validation() *weekgrid.ValidationError {
	var v *weekgrid.ValidationError
	if errors.As(e.Err, &v) {
		return v
	}
	return nil
}

// Message is the text shown to the user.
func (e *Error) Message() string {
	switch e.Kind {
	case KindValidation:
		return "Please fix the highlighted fields before saving."
	case KindNotFound:
		return "That lesson plan no longer exists. Refresh the list and try again."
	case KindInFlight:
		return "Still saving your last change. Try again in a moment."
	}
	return fmt.Sprintf("Could not %s the lesson plan: %v", verb(e.Op), e.Err)
}

func verb(op string) string {
	switch op {
	case opList:
		return "load"
	case opRemove:
		return "delete"
	}
	return op
}

// Message returns the user-facing text for any error a Planner returned.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Message()
	}
	return "Something went wrong. Please try again."
}

func classify(op string, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	kind := KindTransport
	var verr *weekgrid.ValidationError
	switch {
	case errors.As(err, &verr):
		kind = KindValidation
	case errors.Is(err, ErrNotFound):
		kind = KindNotFound
	case errors.Is(err, ErrInFlight):
		kind = KindInFlight
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
