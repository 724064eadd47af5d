package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdesk/internal/config"
	"taskdesk/internal/exitcode"
	"taskdesk/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	view        viewFlags
	title       optionalString
	description optionalString
	status      optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title, description or status" }
func (c *EditCmd) Usage() string {
	return "taskdesk edit [--filter <s>] [--search <term>] [--page <n>] [--title <t>] [--description <d>] [--status <s>] <ref>"
}
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, false)
	c.title, c.description, c.status = optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.status, "status", "")
}

// buildChanges validates the edit flags and turns them into a partial update.
func (c *EditCmd) buildChanges() (service.Changes, error) {
	changes := service.Changes{
		Title:       c.title.ptr(),
		Description: c.description.ptr(),
	}
	if changes.Title != nil && strings.TrimSpace(*changes.Title) == "" {
		return changes, fmt.Errorf("title must not be empty")
	}
	if changes.Description != nil && strings.TrimSpace(*changes.Description) == "" {
		return changes, fmt.Errorf("description must not be empty")
	}
	if c.status.set {
		st, err := parseStatus(c.status.value)
		if err != nil {
			return changes, err
		}
		changes.Status = &st
	}
	if changes.IsEmpty() {
		return changes, fmt.Errorf("nothing to change (use --title, --description or --status)")
	}
	return changes, nil
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	num, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	changes, err := c.buildChanges()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	s, code := openView(ctx, cfg, svc, c.view, errOut)
	if code != exitcode.Success {
		return code
	}
	task, err := resolveRef(s, num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, err := s.UpdateTask(ctx, task.ID, changes); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
