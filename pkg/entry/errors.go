package entry

import "errors"

// ErrInvalidGlob is returned when a glob pattern is empty or syntactically
// invalid. It is always returned before any filesystem access.
var ErrInvalidGlob = errors.New("invalid glob pattern")

// ErrInvalidOptions is returned when resolve options are malformed.
// It is always returned before any filesystem access.
var ErrInvalidOptions = errors.New("invalid resolve options")
