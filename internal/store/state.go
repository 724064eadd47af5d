package store

import "taskdesk/internal/service"

// Snapshot is a consistent read of everything the presentation layer shows.
type Snapshot struct {
	Loading    bool
	Loaded     bool
	ListError  error
	WriteError error

	Count          int
	CompletedCount int
	PendingCount   int
	FilteredCount  int

	SearchTerm   string
	StatusFilter Filter
	CurrentPage  int
	TotalPages   int
	PageSize     int

	// Page is the current page of the filtered view.
	Page []service.Task
}

// Snapshot returns the store's read-side state computed under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := filterTasks(s.tasks, s.filter, s.search)
	completed := countCompleted(s.tasks)
	return Snapshot{
		Loading:        s.loading > 0,
		Loaded:         s.loaded,
		ListError:      s.listErr,
		WriteError:     s.writeErr,
		Count:          len(s.tasks),
		CompletedCount: completed,
		PendingCount:   len(s.tasks) - completed,
		FilteredCount:  len(filtered),
		SearchTerm:     s.search,
		StatusFilter:   s.filter,
		CurrentPage:    s.page,
		TotalPages:     totalPages(len(filtered), s.pageSize),
		PageSize:       s.pageSize,
		Page:           pageSlice(filtered, s.page, s.pageSize),
	}
}

// Tasks returns a copy of the canonical collection.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// FilteredTasks returns the collection after the status filter and search term.
func (s *Store) FilteredTasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterTasks(s.tasks, s.filter, s.search)
}

// PaginatedTasks returns the current page of FilteredTasks.
func (s *Store) PaginatedTasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pageSlice(filterTasks(s.tasks, s.filter, s.search), s.page, s.pageSize)
}

// TaskAt returns the n-th (1-based) task on the current page.
func (s *Store) TaskAt(n int) (service.Task, bool) {
	page := s.PaginatedTasks()
	if n < 1 || n > len(page) {
		return service.Task{}, false
	}
	return page[n-1], true
}

// TotalPages returns the number of pages in the filtered view.
func (s *Store) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPagesLocked()
}

// CurrentPage returns the 1-based current page.
func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// PageSize returns the number of tasks per page.
func (s *Store) PageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageSize
}

func (s *Store) SearchTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

func (s *Store) StatusFilter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Loaded reports whether any load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// ListError returns the last load or delete failure, or nil.
func (s *Store) ListError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listErr
}

// WriteError returns the last create or update failure, or nil.
func (s *Store) WriteError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}

// Count returns the size of the canonical collection.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// CompletedCount returns how many tasks are completed.
func (s *Store) CompletedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countCompleted(s.tasks)
}

// PendingCount returns how many tasks are not completed.
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks) - countCompleted(s.tasks)
}
