package task

import (
	"strings"

	"tasks-api/internal/model"
)

// Query selects records from the store. Zero fields match everything.
type Query struct {
	ID     string
	Search string
}

// Matches reports whether t satisfies the query. Search is a case-sensitive
// substring match against the title or the description.
func (q Query) Matches(t model.Task) bool {
	if q.ID != "" && t.ID != q.ID {
		return false
	}
	if q.Search != "" &&
		!strings.Contains(t.Title, q.Search) &&
		!strings.Contains(t.Description, q.Search) {
		return false
	}
	return true
}
