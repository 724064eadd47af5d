package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"taskdesk/internal/config"
	"taskdesk/internal/exitcode"
	"taskdesk/internal/export"
	"taskdesk/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command. It writes every task matching
// the filters, across all pages.
type ExportCmd struct {
	view   viewFlags
	format string
	output string
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Export tasks as JSON, CSV or PDF" }
func (c *ExportCmd) Usage() string {
	return "taskdesk export [--format json|csv|pdf] [--output <file>] [--status <s>] [--search <term>]"
}
func (c *ExportCmd) NeedsBackend() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	c.view.register(fs, true)
	fs.StringVar(&c.format, "format", string(export.FormatJSON), "")
	fs.StringVar(&c.format, "f", string(export.FormatJSON), "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.format == "" {
		c.format = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if format == export.FormatPDF && c.output == "" {
		fmt.Fprintln(errOut, "error: pdf export requires --output")
		return exitcode.UserError
	}

	s, code := openView(ctx, cfg, svc, c.view, errOut)
	if code != exitcode.Success {
		return code
	}
	tasks := s.FilteredTasks()

	w := out
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, tasks); err != nil {
		fmt.Fprintf(errOut, "error: export failed: %v\n", err)
		return exitcode.BackendError
	}

	if c.output != "" && !cfg.Quiet {
		fmt.Fprintf(out, "exported %d tasks to %s\n", len(tasks), c.output)
	}
	return exitcode.Success
}
