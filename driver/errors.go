package driver

import "errors"

// ErrClosed is returned by Exec/RunTransaction once Close has been
// called on a driver.
var ErrClosed = errors.New("driver: driver is closed")

// IsClosedErr returns true if err is or wraps ErrClosed.
func IsClosedErr(err error) bool { return errors.Is(err, ErrClosed) }
