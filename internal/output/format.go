// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdesk/internal/service"
	"taskdesk/internal/store"
)

const (
	// ListSeparator is the separator line around the task rows.
	ListSeparator = "------------"
)

// FormatTask formats one row of the task view.
// Format: "{N:>4}  [{x| }] {TITLE}\n", followed by the description indented
// under the title when there is one.
func FormatTask(w io.Writer, num int, task service.Task) {
	mark := " "
	if task.Status == service.StatusCompleted {
		mark = "x"
	}
	fmt.Fprintf(w, "%4d  [%s] %s\n", num, mark, normalizeTitle(task.Title))
	if desc := singleLine(task.Description); strings.TrimSpace(desc) != "" {
		fmt.Fprintf(w, "          %s\n", desc)
	}
}

// FormatSummary formats the collection counts.
func FormatSummary(w io.Writer, snap store.Snapshot) {
	fmt.Fprintf(w, "%d tasks, %d completed, %d pending\n",
		snap.Count, snap.CompletedCount, snap.PendingCount)
}

// FormatView formats the current page of a store snapshot with its summary,
// active filters and page footer.
func FormatView(w io.Writer, snap store.Snapshot) {
	if snap.Count == 0 {
		fmt.Fprintln(w, "no tasks")
		return
	}

	FormatSummary(w, snap)
	if snap.StatusFilter != store.FilterAll || snap.SearchTerm != "" {
		fmt.Fprintf(w, "filter: status=%s search=%q\n", snap.StatusFilter, snap.SearchTerm)
	}
	fmt.Fprintln(w, ListSeparator)
	if len(snap.Page) == 0 {
		fmt.Fprintln(w, "no matching tasks")
	}
	for i, task := range snap.Page {
		FormatTask(w, i+1, task)
	}
	fmt.Fprintln(w, ListSeparator)
	FormatPageFooter(w, snap)
}

// FormatPageFooter formats "page N of M (K matching)".
// An empty view reports page 1 of 1.
func FormatPageFooter(w io.Writer, snap store.Snapshot) {
	total := snap.TotalPages
	if total < 1 {
		total = 1
	}
	fmt.Fprintf(w, "page %d of %d (%d matching)\n", snap.CurrentPage, total, snap.FilteredCount)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = singleLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
