package output_test

import (
	"bytes"
	"context"
	"testing"

	"taskdesk/internal/output"
	"taskdesk/internal/service"
	"taskdesk/internal/store"
	"taskdesk/internal/testutil"
)

func loadedStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	svc := testutil.NewFakeService()
	svc.AddTask("1", "Buy milk", "2 liters", service.StatusPending)
	svc.AddTask("2", "Walk dog", "", service.StatusCompleted)
	svc.AddTask("3", "Call\nmom", "Sunday", service.StatusLegacyComplete)
	svc.AddTask("4", "  ", "", service.StatusPending)

	s := store.New(svc, opts...)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return s
}

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name     string
		num      int
		task     service.Task
		expected string
	}{
		{
			name:     "pending",
			num:      1,
			task:     service.Task{Title: "Buy milk", Status: service.StatusPending},
			expected: "   1  [ ] Buy milk\n",
		},
		{
			name:     "completed with description",
			num:      12,
			task:     service.Task{Title: "Walk dog", Description: "park\nloop", Status: service.StatusCompleted},
			expected: "  12  [x] Walk dog\n          park loop\n",
		},
		{
			name:     "untitled",
			num:      3,
			task:     service.Task{Title: " \n "},
			expected: "   3  [ ] (untitled)\n",
		},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		output.FormatTask(&buf, tt.num, tt.task)
		if buf.String() != tt.expected {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.expected, buf.String())
		}
	}
}

func TestFormatView_Golden(t *testing.T) {
	s := loadedStore(t)

	var buf bytes.Buffer
	output.FormatView(&buf, s.Snapshot())
	testutil.Golden(t, "view_all", buf.Bytes())
}

func TestFormatView_FilteredSecondPage(t *testing.T) {
	s := loadedStore(t, store.WithPageSize(1))
	s.SetStatusFilter(store.FilterCompleted)
	s.NextPage()

	var buf bytes.Buffer
	output.FormatView(&buf, s.Snapshot())
	testutil.Golden(t, "view_completed_page2", buf.Bytes())
}

func TestFormatView_NoMatches(t *testing.T) {
	s := loadedStore(t)
	s.SetSearchTerm("zzz")

	var buf bytes.Buffer
	output.FormatView(&buf, s.Snapshot())
	expected := "4 tasks, 2 completed, 2 pending\n" +
		"filter: status=all search=\"zzz\"\n" +
		"------------\n" +
		"no matching tasks\n" +
		"------------\n" +
		"page 1 of 1 (0 matching)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatView_Empty(t *testing.T) {
	s := store.New(testutil.NewFakeService())

	var buf bytes.Buffer
	output.FormatView(&buf, s.Snapshot())
	if buf.String() != "no tasks\n" {
		t.Errorf("expected %q, got %q", "no tasks\n", buf.String())
	}
}
