package task

import "errors"

var (
	ErrMissingFields    = errors.New("title and description are required")
	ErrNoFieldsToUpdate = errors.New("title or description are required")
)
