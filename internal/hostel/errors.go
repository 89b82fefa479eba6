package hostel

import "errors"

// Sentinel errors for business rule failures.  All core operations
// return one of these (possibly wrapped with detail) instead of
// raising uncaught faults; handlers translate them into user facing
// responses.  None of them are retryable.

// ErrCapacityExceeded is returned when an assignment or room change
// targets a room with no free slot.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrSameRoom is returned when a swap is requested between residents
// who already share a room, which would be a no-op.
var ErrSameRoom = errors.New("residents are already in the same room")

// ErrValidation is returned for invalid input to an operation, such as
// vacating with a missing note or marking a resident fully paid while
// money is still owed.
var ErrValidation = errors.New("validation error")
