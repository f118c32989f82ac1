package pipeline

import (
	"errors"
	"fmt"
)

// UnclaimedTokenError reports a token that every enabled reader declined.
type UnclaimedTokenError struct {
	Type  string
	Value any
}

func (e *UnclaimedTokenError) Error() string {
	return fmt.Sprintf("unexpected token \"%s:%v\"", e.Type, e.Value)
}

// IsUnclaimed reports whether err is, or wraps, an UnclaimedTokenError.
func IsUnclaimed(err error) bool {
	var ue *UnclaimedTokenError
	return errors.As(err, &ue)
}
