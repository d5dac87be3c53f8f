package newsletter

import "errors"

var (
	ErrAlreadySubscribed = errors.New("email is already subscribed")
	ErrInvalidEmail      = errors.New("valid email address is required")
	ErrNoSubscribers     = errors.New("no active subscribers found")
	ErrInvalidToken      = errors.New("invalid unsubscribe link")
	ErrNotSubscribed     = errors.New("email is not subscribed")
)
