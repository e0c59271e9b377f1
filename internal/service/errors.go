package service

import (
	"errors"

	"warden-go/internal/apperror"
)

// Shared sentinel errors used across service types. Kept in one file since
// several services (booking, report, recurring assignment) return the same
// not-found/internal shapes and a boundary maps them the same way regardless
// of which service produced them.
var (
	ErrInternalServer = errors.New("internal server error")
	ErrUserNotFound   = errors.New("user not found")
)

// Classify maps any sentinel error returned by this package's services to
// the apperror.Kind a boundary should respond with, so a boundary (HTTP
// handler, job runner error counters) never needs to import or string-match
// every service's individual sentinel values.
func Classify(err error) apperror.Kind {
	switch {
	case err == nil:
		return apperror.KindUnknown
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrScheduleNotFound),
		errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrRecurringAssignmentNotFound):
		return apperror.KindNotFound
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrShiftTimeInvalid),
		errors.Is(err, ErrBuddyPhoneInvalid),
		errors.Is(err, ErrSeverityOutOfRange),
		errors.Is(err, ErrUnknownAudience):
		return apperror.KindInvalidInput
	case errors.Is(err, ErrCheckInTooEarly),
		errors.Is(err, ErrBookingCannotBeCancelled),
		errors.Is(err, ErrBookingLeadTimeTooShort):
		return apperror.KindPreconditionFailed
	case errors.Is(err, ErrBookingConflict),
		errors.Is(err, ErrAlreadyBookedByUser):
		return apperror.KindConflict
	case errors.Is(err, ErrForbiddenUpdate),
		errors.Is(err, ErrReportBookingAuth):
		return apperror.KindForbidden
	default:
		return apperror.KindInternal
	}
}
