package store

import (
	"fmt"
	"strings"

	"taskdesk/internal/service"
)

// Filter selects tasks by status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter parses a user-supplied status filter. Empty means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("invalid status filter: %s", s)
	}
}

// matches reports whether a task passes the filter.
// Pending is "anything not completed", so unknown statuses count as pending.
func (f Filter) matches(t service.Task) bool {
	switch f {
	case FilterCompleted:
		return t.Status == service.StatusCompleted
	case FilterPending:
		return t.Status != service.StatusCompleted
	default:
		return true
	}
}

// matchesSearch reports whether the lower-cased term is a substring of the
// task's title or description. An empty term matches everything.
func matchesSearch(t service.Task, lowerTerm string) bool {
	if lowerTerm == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), lowerTerm) ||
		strings.Contains(strings.ToLower(t.Description), lowerTerm)
}

// filterTasks applies the status filter and then the search term, keeping
// collection order.
func filterTasks(tasks []service.Task, f Filter, term string) []service.Task {
	lowerTerm := strings.ToLower(term)
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.matches(t) && matchesSearch(t, lowerTerm) {
			out = append(out, t)
		}
	}
	return out
}

// totalPages is ceil(n / size); zero items yields zero pages.
func totalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// pageSlice returns the 1-based page of items, clipped to the slice bounds.
// Out-of-range pages yield an empty slice.
func pageSlice(items []service.Task, page, size int) []service.Task {
	if page < 1 || size < 1 {
		return []service.Task{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []service.Task{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]service.Task, end-start)
	copy(out, items[start:end])
	return out
}

// countCompleted returns how many tasks have status exactly completed.
func countCompleted(tasks []service.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == service.StatusCompleted {
			n++
		}
	}
	return n
}
