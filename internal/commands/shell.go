package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"taskdesk/internal/config"
	"taskdesk/internal/exitcode"
	"taskdesk/internal/output"
	"taskdesk/internal/service"
	"taskdesk/internal/store"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements an interactive session over one long-lived store.
type ShellCmd struct {
	// In is read for commands. Nil means os.Stdin.
	In io.Reader
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Aliases() []string  { return nil }
func (c *ShellCmd) Synopsis() string   { return "Interactive task session" }
func (c *ShellCmd) Usage() string      { return "taskdesk shell [common flags]" }
func (c *ShellCmd) NeedsBackend() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

const shellHelp = `Commands:
  ls                         Show the current page
  next, prev, page <n>       Move between pages
  search [term...]           Filter by text (no term clears it)
  filter all|pending|completed
  add <title> | <description>
  done <n>                   Toggle completion of row n
  rename <n> <title...>
  describe <n> <text...>
  rm <n>
  reload                     Fetch tasks again
  quit
`

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	in := c.In
	if in == nil {
		in = os.Stdin
	}

	sh := &shell{store: newStore(cfg, svc), out: out, errOut: errOut}
	if err := sh.store.Load(ctx); err != nil {
		reportError(errOut, err)
	}
	sh.show()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		if ctx.Err() != nil {
			break
		}
		if quit := sh.exec(ctx, scanner.Text()); quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

type shell struct {
	store  *store.Store
	out    io.Writer
	errOut io.Writer
}

func (sh *shell) show() {
	output.FormatView(sh.out, sh.store.Snapshot())
}

func (sh *shell) fail(err error) {
	fmt.Fprintf(sh.errOut, "error: %v\n", err)
}

// exec runs one line and reports whether the session should end.
func (sh *shell) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "q", "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
	case "ls", "list":
		sh.show()
	case "n", "next":
		sh.store.NextPage()
		sh.show()
	case "p", "prev":
		sh.store.PreviousPage()
		sh.show()
	case "page":
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > sh.store.TotalPages() {
			sh.fail(fmt.Errorf("page out of range: %s", rest))
			return false
		}
		sh.store.GoToPage(n)
		sh.show()
	case "search":
		sh.store.SetSearchTerm(rest)
		sh.show()
	case "filter":
		f, err := store.ParseFilter(rest)
		if err != nil {
			sh.fail(err)
			return false
		}
		sh.store.SetStatusFilter(f)
		sh.show()
	case "reload":
		if err := sh.store.Load(ctx); err != nil {
			sh.fail(err)
			return false
		}
		sh.show()
	case "add":
		title, desc, _ := strings.Cut(rest, "|")
		title, desc = strings.TrimSpace(title), strings.TrimSpace(desc)
		if title == "" || desc == "" {
			sh.fail(fmt.Errorf("usage: add <title> | <description>"))
			return false
		}
		if _, err := sh.store.CreateTask(ctx, service.Draft{Title: title, Description: desc, Status: service.StatusPending}); err != nil {
			sh.fail(err)
			return false
		}
		sh.show()
	case "done", "rm":
		task, ok := sh.row(rest)
		if !ok {
			return false
		}
		var err error
		if name == "done" {
			err = sh.store.ToggleTaskCompletion(ctx, task.ID)
		} else {
			err = sh.store.DeleteTask(ctx, task.ID)
		}
		if err != nil {
			sh.fail(err)
			return false
		}
		sh.show()
	case "rename", "describe":
		ref, text, _ := strings.Cut(rest, " ")
		text = strings.TrimSpace(text)
		task, ok := sh.row(ref)
		if !ok {
			return false
		}
		if text == "" {
			sh.fail(fmt.Errorf("usage: %s <n> <text...>", name))
			return false
		}
		changes := service.Changes{Title: &text}
		if name == "describe" {
			changes = service.Changes{Description: &text}
		}
		if _, err := sh.store.UpdateTask(ctx, task.ID, changes); err != nil {
			sh.fail(err)
			return false
		}
		sh.show()
	default:
		sh.fail(fmt.Errorf("unknown command: %s (try help)", name))
	}
	return false
}

// row resolves a row reference on the current page.
func (sh *shell) row(ref string) (service.Task, bool) {
	num, err := ParseTaskRef(strings.Fields(ref))
	if err != nil {
		sh.fail(err)
		return service.Task{}, false
	}
	task, err := resolveRef(sh.store, num)
	if err != nil {
		sh.fail(err)
		return service.Task{}, false
	}
	return task, true
}
