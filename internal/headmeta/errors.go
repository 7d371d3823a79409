package headmeta

import stderrors "errors"

// ErrInvalidDate is wrapped by the error returned when a published or modified
// value cannot be read as a point in time.
var ErrInvalidDate = stderrors.New("invalid date")
