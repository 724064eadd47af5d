package store

import "taskdesk/internal/service"

// NormalizeStatus maps the legacy "complete" spelling to StatusCompleted.
// Every other value is returned unchanged, including values the store does
// not know about.
func NormalizeStatus(s service.Status) service.Status {
	if s == service.StatusLegacyComplete {
		return service.StatusCompleted
	}
	return s
}

// Normalize returns a copy of t with its status normalized.
func Normalize(t service.Task) service.Task {
	t.Status = NormalizeStatus(t.Status)
	return t
}

// normalizeAll normalizes a freshly loaded collection into a new slice.
func normalizeAll(raw []service.Task) []service.Task {
	out := make([]service.Task, len(raw))
	for i, t := range raw {
		out[i] = Normalize(t)
	}
	return out
}
