package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskdesk/internal/config"
	"taskdesk/internal/devserver"
	"taskdesk/internal/exitcode"
	"taskdesk/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the in-memory dev task API.
type ServeCmd struct {
	addr             string
	rejectDuplicates bool
	seed             bool

	// Ready, if set, receives the bound address once the server listens.
	Ready chan<- string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run a local in-memory task API" }
func (c *ServeCmd) Usage() string {
	return "taskdesk serve [--addr <host:port>] [--reject-duplicates] [--seed]"
}
func (c *ServeCmd) NeedsBackend() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
	fs.BoolVar(&c.rejectDuplicates, "reject-duplicates", false, "")
	fs.BoolVar(&c.seed, "seed", false, "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = cfg.Settings.ServeAddr
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	opts := devserver.Options{RejectDuplicates: c.rejectDuplicates}
	if c.seed {
		opts.Seed = devserver.SampleTasks()
	}
	dev := devserver.NewServer(opts)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(errOut, "error: could not listen on %s: %v\n", addr, err)
		return exitcode.UserError
	}
	server := &http.Server{Handler: dev.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	bound := listener.Addr().String()
	logger(cfg).Debug("dev server listening", "addr", bound)
	if !cfg.Quiet {
		fmt.Fprintf(out, "serving on http://%s\n", bound)
	}
	if c.Ready != nil {
		c.Ready <- bound
	}

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
