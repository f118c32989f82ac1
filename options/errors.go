package options

import "errors"

// InvalidPathError reports a path that is neither a string nor an ordered
// key sequence.
type InvalidPathError struct {
	Path any
}

func (e *InvalidPathError) Error() string {
	return "path is must be string or array"
}

// IsInvalidPath reports whether err is, or wraps, an InvalidPathError.
func IsInvalidPath(err error) bool {
	var pe *InvalidPathError
	return errors.As(err, &pe)
}
