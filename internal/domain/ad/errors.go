package ad

import "errors"

var (
	ErrAdNotFound       = errors.New("advertisement not found")
	ErrAdNotActive      = errors.New("advertisement is not active")
	ErrAdNotStarted     = errors.New("advertisement has not started yet")
	ErrAdExpired        = errors.New("advertisement has expired")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrInvalidRange     = errors.New("invalid time range")
	ErrInvalidWindow    = errors.New("end_date must not be before start_date")
)
