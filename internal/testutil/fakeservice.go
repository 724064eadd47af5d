// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"taskdesk/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It stores statuses exactly as given, so legacy values can be seeded.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  []string

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// RejectDuplicates makes Create fail with ErrDuplicateTitle the way a
	// backend enforcing unique titles would.
	RejectDuplicates bool

	// ListGate, if set, blocks List until it is closed or receives a value.
	// CallCount("list") rises once the blocked call has captured its result.
	ListGate chan struct{}
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask seeds a task. The status is stored verbatim.
func (f *FakeService) AddTask(id, title, description string, status service.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      status,
	})
	if n, err := strconv.Atoi(id); err == nil && n >= f.nextID {
		f.nextID = n + 1
	}
}

// Stored returns a copy of the backend's tasks.
func (f *FakeService) Stored() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns the operations received so far, e.g. "list", "create",
// "update 3", "delete 3".
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many calls started with op.
func (f *FakeService) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op || strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

func (f *FakeService) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

// List implements service.Service.
// The result is captured when the call starts, so a gated List returns the
// collection as it was before any write made while it waited. The call is
// recorded after the capture.
func (f *FakeService) List(ctx context.Context) ([]service.Task, error) {
	tasks := f.Stored()
	f.record("list")
	if f.ListGate != nil {
		select {
		case <-f.ListGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return tasks, nil
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, draft service.Draft) (service.Task, error) {
	f.record("create")
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.RejectDuplicates {
		want := strings.ToLower(strings.TrimSpace(draft.Title))
		for _, t := range f.tasks {
			if strings.ToLower(strings.TrimSpace(t.Title)) == want {
				return service.Task{}, service.ErrDuplicateTitle
			}
		}
	}

	task := service.Task{
		ID:          strconv.Itoa(f.nextID),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, id string, changes service.Changes) (service.Task, error) {
	f.record("update " + id)
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = changes.Apply(t)
			return f.tasks[i], nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, id string) error {
	f.record("delete " + id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
