package post

import "errors"

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrInvalidCategory = errors.New("invalid category")
)
