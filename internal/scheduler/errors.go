package scheduler

import "errors"

// Business error kinds. Errors returned by Scheduler wrap exactly one of these
// when the request was rejected; anything else is an internal failure.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// Specific rejections, each wrapping its kind.
var (
	ErrDoctorNotFound      = &rejection{kind: ErrNotFound, msg: "doctor not found"}
	ErrAppointmentNotFound = &rejection{kind: ErrNotFound, msg: "appointment not found"}
	ErrSlotBooked          = &rejection{kind: ErrConflict, msg: "time slot is already booked"}
	ErrAlreadyCancelled    = &rejection{kind: ErrInvalidState, msg: "appointment is already cancelled"}
	ErrNotModifiable       = &rejection{kind: ErrInvalidState, msg: "appointment can no longer be modified"}
	ErrInvalidTransition   = &rejection{kind: ErrInvalidState, msg: "status transition is not allowed"}
	ErrConcurrentChange    = &rejection{kind: ErrInvalidState, msg: "appointment was changed by another request"}
)

type rejection struct {
	kind error
	msg  string
}

func (r *rejection) Error() string { return r.msg }

func (r *rejection) Unwrap() error { return r.kind }

// Kind returns the business kind err belongs to, or nil for internal failures.
func Kind(err error) error {
	for _, kind := range []error{ErrInvalidInput, ErrNotFound, ErrConflict, ErrInvalidState} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
