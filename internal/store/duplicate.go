package store

import (
	"strings"

	"taskdesk/internal/service"
)

// normalizeTitle trims surrounding whitespace and case-folds a title.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// IsDuplicateTitle reports whether candidate matches the title of any task in
// existing, ignoring surrounding whitespace and case.
func IsDuplicateTitle(existing []service.Task, candidate string) bool {
	return IsDuplicateTitleExcept(existing, candidate, "")
}

// IsDuplicateTitleExcept is like IsDuplicateTitle but skips the task with the
// given ID, so a task being renamed never collides with itself.
// An empty exceptID skips nothing.
func IsDuplicateTitleExcept(existing []service.Task, candidate, exceptID string) bool {
	want := normalizeTitle(candidate)
	for _, t := range existing {
		if exceptID != "" && t.ID == exceptID {
			continue
		}
		if normalizeTitle(t.Title) == want {
			return true
		}
	}
	return false
}
