// Package store owns the canonical task collection, the views derived from it,
// and every write against the remote task API.
//
// Writes are confirmed before they are applied: a create, update or delete
// only touches the local collection after the backend reports success. A
// failed write records an error and leaves the collection as it was.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"taskdesk/internal/service"
)

// DefaultPageSize is the number of tasks per page unless configured otherwise.
const DefaultPageSize = 10

// Option configures a Store.
type Option func(*Store)

// WithPageSize sets the initial page size. Values below 1 are ignored.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.pageSize = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFreshDuplicateCheck makes CreateTask fetch the remote collection before
// checking for duplicate titles, instead of trusting the local collection.
func WithFreshDuplicateCheck(enabled bool) Option {
	return func(s *Store) {
		s.freshDupCheck = enabled
	}
}

// Store is the single owner of the task collection.
// It is safe for concurrent use; the lock is never held across a remote call,
// so overlapping operations complete independently and the last one wins.
type Store struct {
	svc           service.Service
	logger        *slog.Logger
	freshDupCheck bool

	mu       sync.Mutex
	tasks    []service.Task
	loaded   bool
	loading  int // in-flight loads
	listErr  error
	writeErr error
	search   string
	filter   Filter
	page     int
	pageSize int
}

// New creates a store backed by svc. The collection is empty until Load.
func New(svc service.Service, opts ...Option) *Store {
	s := &Store{
		svc:      svc,
		logger:   slog.New(slog.DiscardHandler),
		filter:   FilterAll,
		page:     1,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches every task from the backend and replaces the collection.
// On failure the list-level error is set and any previously loaded
// collection is kept.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()

	s.logger.Debug("loading tasks")
	raw, err := s.svc.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading--

	if err != nil {
		err = fmt.Errorf("load tasks: %w", err)
		s.listErr = err
		s.logger.Debug("load failed", "error", err)
		return err
	}

	s.tasks = normalizeAll(raw)
	s.loaded = true
	s.listErr = nil
	s.page = 1
	s.logger.Debug("tasks loaded", "count", len(s.tasks))
	return nil
}

// SetSearchTerm stores the term as typed and returns to the first page.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
	s.page = 1
}

// SetStatusFilter sets the status filter and returns to the first page.
// Unknown filters are treated as FilterAll.
func (s *Store) SetStatusFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch f {
	case FilterPending, FilterCompleted:
		s.filter = f
	default:
		s.filter = FilterAll
	}
	s.page = 1
}

// SetPageSize changes the page size and returns to the first page.
// Values below 1 are ignored.
func (s *Store) SetPageSize(n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = n
	s.page = 1
}

// GoToPage moves to page n if it exists; otherwise it does nothing.
func (s *Store) GoToPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= 1 && n <= s.totalPagesLocked() {
		s.page = n
	}
}

// NextPage advances one page unless already on the last page.
func (s *Store) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page < s.totalPagesLocked() {
		s.page++
	}
}

// PreviousPage goes back one page unless already on the first page.
func (s *Store) PreviousPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page > 1 {
		s.page--
	}
}

// CreateTask checks the draft for a duplicate title and, if it is unique,
// sends it to the backend. The created task is appended only after the
// backend confirms it. Input validation is the caller's job.
func (s *Store) CreateTask(ctx context.Context, draft service.Draft) (service.Task, error) {
	draft.Status = NormalizeStatus(draft.Status)
	if draft.Status == "" {
		draft.Status = service.StatusPending
	}

	existing, err := s.duplicateCandidates(ctx)
	if err != nil {
		return service.Task{}, s.failWrite("create task", err)
	}
	if IsDuplicateTitle(existing, draft.Title) {
		return service.Task{}, s.failWrite("create task",
			fmt.Errorf("%w: %s", service.ErrDuplicateTitle, strings.TrimSpace(draft.Title)))
	}

	s.logger.Debug("creating task", "title", draft.Title)
	created, err := s.svc.Create(ctx, draft)
	if err != nil {
		return service.Task{}, s.failWrite("create task", err)
	}
	created = Normalize(created)

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.writeErr = nil
	s.mu.Unlock()

	s.logger.Debug("task created", "id", created.ID)
	return created, nil
}

// UpdateTask sends a partial change for the task with the given ID. On
// success the change is merged into the local entry; fields absent from
// changes keep their local values whatever the backend echoes back.
func (s *Store) UpdateTask(ctx context.Context, id string, changes service.Changes) (service.Task, error) {
	op := "update task " + id
	if changes.Status != nil {
		st := NormalizeStatus(*changes.Status)
		changes.Status = &st
	}
	if changes.Title != nil && IsDuplicateTitleExcept(s.Tasks(), *changes.Title, id) {
		return service.Task{}, s.failWrite(op,
			fmt.Errorf("%w: %s", service.ErrDuplicateTitle, strings.TrimSpace(*changes.Title)))
	}

	s.logger.Debug("updating task", "id", id)
	returned, err := s.svc.Update(ctx, id, changes)
	if err != nil {
		return service.Task{}, s.failWrite(op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = nil
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = changes.Apply(s.tasks[i])
			updated := s.tasks[i]
			// The change may have moved the task out of the view.
			s.clampPageLocked()
			return updated, nil
		}
	}

	// Deleted locally while the update was in flight.
	s.logger.Debug("updated task not in collection", "id", id)
	return changes.Apply(Normalize(returned)), nil
}

// ToggleTaskCompletion flips a task between completed and pending. The task
// is looked up in the current filtered view; an unknown ID is ignored.
func (s *Store) ToggleTaskCompletion(ctx context.Context, id string) error {
	s.mu.Lock()
	var (
		current service.Task
		found   bool
	)
	for _, t := range filterTasks(s.tasks, s.filter, s.search) {
		if t.ID == id {
			current, found = t, true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		s.logger.Debug("toggle ignored, task not in view", "id", id)
		return nil
	}

	next := service.StatusCompleted
	if current.Status == service.StatusCompleted {
		next = service.StatusPending
	}
	_, err := s.UpdateTask(ctx, id, service.StatusChange(next))
	return err
}

// DeleteTask removes a task from the backend and then from the collection.
// Failures set the list-level error.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.logger.Debug("deleting task", "id", id)
	if err := s.svc.Delete(ctx, id); err != nil {
		err = fmt.Errorf("delete task %s: %w", id, err)
		s.mu.Lock()
		s.listErr = err
		s.mu.Unlock()
		s.logger.Debug("delete failed", "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			break
		}
	}
	s.listErr = nil
	s.clampPageLocked()
	return nil
}

// ClearWriteError discards the write-scoped error, e.g. when an editor is cancelled.
func (s *Store) ClearWriteError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = nil
}

// duplicateCandidates returns the tasks a new title is checked against.
func (s *Store) duplicateCandidates(ctx context.Context) ([]service.Task, error) {
	if !s.freshDupCheck {
		return s.Tasks(), nil
	}
	raw, err := s.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return normalizeAll(raw), nil
}

// failWrite records err as the write-scoped error and returns it wrapped with op.
func (s *Store) failWrite(op string, err error) error {
	err = fmt.Errorf("%s: %w", op, err)
	s.mu.Lock()
	s.writeErr = err
	s.mu.Unlock()
	s.logger.Debug("write failed", "error", err)
	return err
}

// clampPageLocked moves the current page back to the last page when the
// view has shrunk below it, or to page 1 when the view is empty.
func (s *Store) clampPageLocked() {
	tp := s.totalPagesLocked()
	switch {
	case tp == 0:
		s.page = 1
	case s.page > tp:
		s.page = tp
	}
}

func (s *Store) totalPagesLocked() int {
	return totalPages(len(filterTasks(s.tasks, s.filter, s.search)), s.pageSize)
}
