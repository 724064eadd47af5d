package commands_test

import (
	"strings"
	"testing"

	"taskdesk/internal/commands"
	"taskdesk/internal/exitcode"
	"taskdesk/internal/service"
)

func TestShellCommand_Session(t *testing.T) {
	svc := seeded()
	script := strings.Join([]string{
		"add Water plants | Before noon",
		"add buy milk | again",
		"filter completed",
		"done 1",
		"filter all",
		"rename 3 Call dad",
		"bogus",
		"quit",
	}, "\n")

	stdout, stderr, code := runCommand(t, &commands.ShellCmd{In: strings.NewReader(script)}, svc, nil, false)

	expectCode(t, exitcode.Success, code, stderr)
	if !strings.Contains(stdout, "Water plants") {
		t.Errorf("expected new task shown, got %q", stdout)
	}
	if !strings.Contains(stderr, "already exists") {
		t.Errorf("expected duplicate error, got %q", stderr)
	}
	if !strings.Contains(stderr, "unknown command: bogus") {
		t.Errorf("expected unknown command error, got %q", stderr)
	}

	want := []service.Task{
		{ID: "1", Title: "Buy milk", Description: "2 liters", Status: service.StatusPending},
		{ID: "2", Title: "Walk dog", Description: "Around the park", Status: service.StatusPending},
		{ID: "3", Title: "Call dad", Description: "Sunday", Status: service.StatusPending},
		{ID: "4", Title: "Water plants", Description: "Before noon", Status: service.StatusPending},
	}
	stored := svc.Stored()
	if len(stored) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(stored))
	}
	for i := range want {
		if stored[i] != want[i] {
			t.Errorf("task %d: expected %#v, got %#v", i, want[i], stored[i])
		}
	}
	if svc.CallCount("list") != 1 {
		t.Errorf("expected a single load, got %d", svc.CallCount("list"))
	}
}

func TestShellCommand_PagingAndEOF(t *testing.T) {
	script := "search nothing-matches\nsearch\npage 9\nnext\nprev\n"

	stdout, stderr, code := runCommand(t, &commands.ShellCmd{In: strings.NewReader(script)}, seeded(), nil, false)

	expectCode(t, exitcode.Success, code, stderr)
	if !strings.Contains(stdout, "no matching tasks") {
		t.Errorf("expected empty view, got %q", stdout)
	}
	if !strings.Contains(stderr, "page out of range: 9") {
		t.Errorf("expected page error, got %q", stderr)
	}
}

func TestShellCommand_LoadFailureKeepsSession(t *testing.T) {
	svc := seeded()
	svc.ListErr = service.ErrTransport

	stdout, stderr, code := runCommand(t, &commands.ShellCmd{In: strings.NewReader("ls\nquit\n")}, svc, nil, false)

	expectCode(t, exitcode.Success, code, stderr)
	if !strings.Contains(stderr, "backend error: load tasks") {
		t.Errorf("expected load error, got %q", stderr)
	}
	if !strings.Contains(stdout, "no tasks") {
		t.Errorf("expected empty view, got %q", stdout)
	}
}
