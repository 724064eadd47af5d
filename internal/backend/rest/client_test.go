package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskdesk/internal/backend/rest"
	"taskdesk/internal/devserver"
	"taskdesk/internal/service"
	"taskdesk/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDevClient(t *testing.T, opts devserver.Options) (*rest.Client, *devserver.Server) {
	t.Helper()
	dev := devserver.NewServer(opts)
	ts := httptest.NewServer(dev.Handler())
	t.Cleanup(ts.Close)

	c, err := rest.New(ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c, dev
}

func newStubClient(t *testing.T, h http.HandlerFunc, opts ...rest.Option) *rest.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := rest.New(ts.URL, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "localhost", "://nope"} {
		if _, err := rest.New(u); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}

func TestClient_RoundTrip(t *testing.T) {
	c, dev := newDevClient(t, devserver.Options{})
	ctx := context.Background()

	created, err := c.Create(ctx, service.Draft{Title: "Buy milk", Description: "2 liters", Status: service.StatusPending})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected ID")
	}

	title := "Buy oat milk"
	updated, err := c.Update(ctx, created.ID, service.Changes{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title || updated.Description != "2 liters" {
		t.Errorf("unexpected update result: %#v", updated)
	}

	tasks, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0] != updated {
		t.Errorf("expected [%#v], got %#v", updated, tasks)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(dev.Tasks()) != 0 {
		t.Errorf("expected empty server, got %v", dev.Tasks())
	}
}

func TestClient_NotFound(t *testing.T) {
	c, _ := newDevClient(t, devserver.Options{})

	if _, err := c.Update(context.Background(), "missing", service.StatusChange(service.StatusCompleted)); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
	if err := c.Delete(context.Background(), "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestClient_DuplicateConflict(t *testing.T) {
	c, _ := newDevClient(t, devserver.Options{
		RejectDuplicates: true,
		Seed:             []devserver.Task{{Title: "Buy milk"}},
	})

	_, err := c.Create(context.Background(), service.Draft{Title: "buy milk", Description: "d"})
	if !errors.Is(err, service.ErrDuplicateTitle) {
		t.Errorf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestClient_DuplicateMessageWithoutConflictStatus(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Task already exists", http.StatusBadRequest)
	})

	_, err := c.Create(context.Background(), service.Draft{Title: "x"})
	if !errors.Is(err, service.ErrDuplicateTitle) {
		t.Errorf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestClient_ServerErrorIsTransport(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.List(context.Background())
	if !errors.Is(err, service.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status in error, got %q", err.Error())
	}
}

func TestClient_MalformedBodyIsTransport(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	})

	if _, err := c.List(context.Background()); !errors.Is(err, service.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestClient_EmptyPatchResponseIsConfirmed(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			io.WriteString(w, `[{"id":"7","title":"Water plants","description":"balcony","status":"pending"}]`)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	task, err := c.Update(context.Background(), "7", service.StatusChange(service.StatusCompleted))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "7" {
		t.Errorf("expected id %q, got %q", "7", task.ID)
	}

	s := store.New(c)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.ToggleTaskCompletion(context.Background(), "7"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if s.WriteError() != nil {
		t.Errorf("expected no write error, got %v", s.WriteError())
	}
	got := s.Tasks()[0]
	if got.Status != service.StatusCompleted || got.Title != "Water plants" || got.Description != "balcony" {
		t.Errorf("unexpected task after toggle: %#v", got)
	}

	// A create still needs the new task in the body.
	if _, err := c.Create(context.Background(), service.Draft{Title: "x", Description: "y"}); !errors.Is(err, service.ErrTransport) {
		t.Errorf("expected ErrTransport for an empty create response, got %v", err)
	}
}

func TestClient_UnreachableIsTransport(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := rest.New(url)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.List(context.Background()); !errors.Is(err, service.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, rest.WithTimeout(20*time.Millisecond))
	defer close(release)

	_, err := c.List(context.Background())
	if !errors.Is(err, service.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestClient_NumericIDs(t *testing.T) {
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"title":"A","description":"a","status":"pending"},{"id":"x2","title":"B","description":"b","status":"complete"}]`)
	})

	tasks, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tasks[0].ID != "1" || tasks[1].ID != "x2" {
		t.Errorf("expected IDs 1 and x2, got %q and %q", tasks[0].ID, tasks[1].ID)
	}
	if tasks[1].Status != service.StatusLegacyComplete {
		t.Errorf("expected raw legacy status from the wire, got %q", tasks[1].Status)
	}
}

func TestClient_PatchSendsOnlyPresentFields(t *testing.T) {
	var body map[string]any
	var method, path string
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		io.WriteString(w, `{"id":7,"title":"T","description":"D","status":"completed"}`)
	})

	if _, err := c.Update(context.Background(), "7", service.StatusChange(service.StatusCompleted)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodPatch || path != "/tasks/7" {
		t.Errorf("expected PATCH /tasks/7, got %s %s", method, path)
	}
	if len(body) != 1 || body["status"] != "completed" {
		t.Errorf("expected only status in body, got %v", body)
	}
}

func TestClient_SendsRequestID(t *testing.T) {
	var got string
	c := newStubClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(rest.RequestIDHeader)
		io.WriteString(w, `[]`)
	})

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("expected uuid request id, got %q", got)
	}
}

func TestClient_WithStore(t *testing.T) {
	c, dev := newDevClient(t, devserver.Options{Seed: devserver.SampleTasks()})
	s := store.New(c)
	ctx := context.Background()

	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.CompletedCount() != 2 {
		t.Errorf("expected legacy status counted as completed, got %d", s.CompletedCount())
	}

	if _, err := s.CreateTask(ctx, service.Draft{Title: "write project plan", Description: "again"}); !errors.Is(err, service.ErrDuplicateTitle) {
		t.Errorf("expected ErrDuplicateTitle, got %v", err)
	}
	if len(dev.Tasks()) != 3 {
		t.Errorf("expected server untouched, got %d tasks", len(dev.Tasks()))
	}
}
