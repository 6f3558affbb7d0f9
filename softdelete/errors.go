package softdelete

import "errors"

// ErrOverlayNotEnabled is returned when a caller asks for trashed rows
// (WithTrashed/OnlyTrashed) or a soft-delete/restore operation against
// a table the Overlay doesn't cover.
var ErrOverlayNotEnabled = errors.New("softdelete: table has no soft-delete overlay enabled")

// IsOverlayNotEnabledErr returns true if err is or wraps
// ErrOverlayNotEnabled.
func IsOverlayNotEnabledErr(err error) bool { return errors.Is(err, ErrOverlayNotEnabled) }
