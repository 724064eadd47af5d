package store_test

import (
	"testing"

	"taskdesk/internal/service"
	"taskdesk/internal/store"
)

func TestIsDuplicateTitle(t *testing.T) {
	existing := []service.Task{
		{ID: "1", Title: "Buy milk"},
		{ID: "2", Title: "  Walk dog "},
	}

	tests := []struct {
		candidate string
		want      bool
	}{
		{"Buy milk", true},
		{"buy MILK", true},
		{"   buy milk\t", true},
		{"walk dog", true},
		{"Buy milk today", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := store.IsDuplicateTitle(existing, tt.candidate); got != tt.want {
			t.Errorf("IsDuplicateTitle(%q) = %v, expected %v", tt.candidate, got, tt.want)
		}
	}
}

func TestIsDuplicateTitle_EmptyCollection(t *testing.T) {
	if store.IsDuplicateTitle(nil, "anything") {
		t.Error("expected no duplicate in an empty collection")
	}
}

func TestIsDuplicateTitleExcept(t *testing.T) {
	existing := []service.Task{
		{ID: "1", Title: "Buy milk"},
		{ID: "2", Title: "Walk dog"},
	}

	if store.IsDuplicateTitleExcept(existing, "BUY MILK", "1") {
		t.Error("expected a task not to collide with itself")
	}
	if !store.IsDuplicateTitleExcept(existing, "walk dog", "1") {
		t.Error("expected collision with another task")
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in, want service.Status
	}{
		{service.StatusLegacyComplete, service.StatusCompleted},
		{service.StatusCompleted, service.StatusCompleted},
		{service.StatusPending, service.StatusPending},
		{"in-progress", "in-progress"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := store.NormalizeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_KeepsOtherFields(t *testing.T) {
	in := service.Task{ID: "7", Title: "T", Description: "D", Status: service.StatusLegacyComplete}
	got := store.Normalize(in)
	want := service.Task{ID: "7", Title: "T", Description: "D", Status: service.StatusCompleted}
	if got != want {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}
