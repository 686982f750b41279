package common

import (
	"errors"
	"fmt"
)

// IllegalPathError is returned when an entry would be written
// outside of the extraction root.
type IllegalPathError struct {
	AbsolutePath string
	Filename     string
	Err          error
}

func (e *IllegalPathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("illegal file path: %s: %v", e.Filename, e.Err)
	}
	return fmt.Sprintf("illegal file path: %s", e.Filename)
}

func (e *IllegalPathError) Unwrap() error { return e.Err }

// IsIllegalPathError reports whether err is or wraps an *IllegalPathError.
func IsIllegalPathError(err error) bool {
	var ipe *IllegalPathError
	return errors.As(err, &ipe)
}
