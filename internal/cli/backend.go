// Package cli parses the command line and wires the selected backend into
// the command being run.
package cli

import (
	"context"
	"fmt"

	"taskdesk/internal/backend/googletasks"
	"taskdesk/internal/backend/rest"
	"taskdesk/internal/config"
	"taskdesk/internal/service"
)

// NewBackend creates the service named by cfg.Settings.Backend.
func NewBackend(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Settings.Backend {
	case config.BackendREST, "":
		client, err := rest.New(cfg.Settings.APIURL, rest.WithTimeout(cfg.Settings.Timeout))
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendGoogle:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("oauth_client.json not found in %s", cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("not logged in (run: taskdesk login)")
		}
		client, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Settings.Backend)
	}
}
