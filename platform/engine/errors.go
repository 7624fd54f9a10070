package engine

import "fmt"

// Rejection is returned when an operation violates a precondition. The
// session state is left untouched and Reason is safe to show to the player.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func reject(format string, args ...interface{}) error {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a validation rejection as opposed to a
// programming error.
func IsRejection(err error) bool {
	_, ok := err.(*Rejection)
	return ok
}
