package devserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/devserver"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_CreateAndList(t *testing.T) {
	s := devserver.NewServer(devserver.Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/tasks", map[string]string{
		"title": "Buy milk", "description": "2 liters",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created devserver.Task
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated ID")
	}
	if created.Status != "pending" {
		t.Errorf("expected default status pending, got %q", created.Status)
	}

	w = doJSON(t, s.Handler(), http.MethodGet, "/tasks", nil)
	var listed []devserver.Task
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 1 || listed[0] != created {
		t.Errorf("expected [%v], got %v", created, listed)
	}
}

func TestServer_CreateRequiresTitle(t *testing.T) {
	s := devserver.NewServer(devserver.Options{})

	w := doJSON(t, s.Handler(), http.MethodPost, "/tasks", map[string]string{"title": "  "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestServer_RejectDuplicates(t *testing.T) {
	s := devserver.NewServer(devserver.Options{
		RejectDuplicates: true,
		Seed:             []devserver.Task{{Title: "Buy milk", Status: "pending"}},
	})

	w := doJSON(t, s.Handler(), http.MethodPost, "/tasks", map[string]string{"title": " BUY MILK "})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if len(s.Tasks()) != 1 {
		t.Errorf("expected 1 task, got %d", len(s.Tasks()))
	}
}

func TestServer_PatchOnlyPresentFields(t *testing.T) {
	s := devserver.NewServer(devserver.Options{
		Seed: []devserver.Task{{ID: "a", Title: "T", Description: "D", Status: "pending"}},
	})

	w := doJSON(t, s.Handler(), http.MethodPatch, "/tasks/a", map[string]string{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	want := devserver.Task{ID: "a", Title: "T", Description: "D", Status: "completed"}
	if got := s.Tasks()[0]; got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestServer_UnknownID(t *testing.T) {
	s := devserver.NewServer(devserver.Options{})

	if w := doJSON(t, s.Handler(), http.MethodPatch, "/tasks/nope", map[string]string{"title": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on patch, got %d", w.Code)
	}
	if w := doJSON(t, s.Handler(), http.MethodDelete, "/tasks/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on delete, got %d", w.Code)
	}
}

func TestServer_Delete(t *testing.T) {
	s := devserver.NewServer(devserver.Options{
		Seed: []devserver.Task{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
	})

	if w := doJSON(t, s.Handler(), http.MethodDelete, "/tasks/a", nil); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	tasks := s.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "b" {
		t.Errorf("expected only b left, got %v", tasks)
	}
}

func TestSampleTasks_IncludesLegacyStatus(t *testing.T) {
	found := false
	for _, task := range devserver.SampleTasks() {
		if task.Status == "complete" {
			found = true
		}
	}
	if !found {
		t.Error("expected a legacy complete status in the sample")
	}
}
