package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"taskdesk/internal/config"
	"taskdesk/internal/exitcode"
	"taskdesk/internal/logging"
	"taskdesk/internal/service"
	"taskdesk/internal/store"
)

// viewFlags select the filtered, paginated view that row references and
// listings refer to.
type viewFlags struct {
	search   string
	status   string
	page     int
	pageSize int
}

// register adds the view flags. The status filter is always available as
// --filter; withStatus also binds it to --status for commands that do not
// use that name for something else.
func (v *viewFlags) register(fs *flag.FlagSet, withStatus bool) {
	fs.StringVar(&v.search, "search", "", "")
	fs.StringVar(&v.search, "s", "", "")
	fs.StringVar(&v.status, "filter", "", "")
	if withStatus {
		fs.StringVar(&v.status, "status", "", "")
	}
	fs.IntVar(&v.page, "page", 1, "")
	fs.IntVar(&v.page, "p", 1, "")
	fs.IntVar(&v.pageSize, "page-size", 0, "")
}

func logger(cfg *config.Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logging.Discard()
}

// newStore creates a store configured from cfg.
func newStore(cfg *config.Config, svc service.Service) *store.Store {
	return store.New(svc,
		store.WithPageSize(cfg.Settings.PageSize),
		store.WithFreshDuplicateCheck(cfg.Settings.FreshDuplicateCheck),
		store.WithLogger(logger(cfg)),
	)
}

// openView loads a store and applies the view flags. On failure it prints
// the error and returns a non-zero exit code.
func openView(ctx context.Context, cfg *config.Config, svc service.Service, v viewFlags, errOut io.Writer) (*store.Store, int) {
	filter, err := store.ParseFilter(v.status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, exitcode.UserError
	}
	if v.page == 0 {
		v.page = 1
	}
	if v.page < 1 {
		fmt.Fprintf(errOut, "error: invalid page: %d\n", v.page)
		return nil, exitcode.UserError
	}
	if v.pageSize < 0 {
		fmt.Fprintf(errOut, "error: invalid page size: %d\n", v.pageSize)
		return nil, exitcode.UserError
	}

	s := newStore(cfg, svc)
	if err := s.Load(ctx); err != nil {
		return nil, reportError(errOut, err)
	}
	if v.pageSize > 0 {
		s.SetPageSize(v.pageSize)
	}
	s.SetStatusFilter(filter)
	s.SetSearchTerm(v.search)
	if v.page > 1 {
		if v.page > s.TotalPages() {
			fmt.Fprintf(errOut, "error: page out of range: %d\n", v.page)
			return nil, exitcode.UserError
		}
		s.GoToPage(v.page)
	}
	return s, exitcode.Success
}

// reportError prints an operation error and returns its exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrDuplicateTitle), errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	}
	return exitcode.FromError(err)
}

// parseStatus parses a task status given on the command line.
func parseStatus(s string) (service.Status, error) {
	switch st := service.Status(strings.ToLower(strings.TrimSpace(s))); st {
	case service.StatusPending, service.StatusCompleted:
		return st, nil
	case service.StatusLegacyComplete:
		return service.StatusCompleted, nil
	default:
		return "", fmt.Errorf("invalid status: %s", s)
	}
}

// optionalString is a string flag that records whether it was set.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
