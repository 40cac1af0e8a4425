package model

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("task not found")

// Task is a single record of the tasks collection. IsCompleted stays nil
// until the task is toggled for the first time.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsCompleted *bool     `json:"isCompleted"`
}
