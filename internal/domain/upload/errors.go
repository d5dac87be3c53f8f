package upload

import "errors"

var (
	ErrNoFile          = errors.New("no file provided")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrInvalidFileName = errors.New("invalid file name")
	ErrUploadNotFound  = errors.New("upload not found")
)
