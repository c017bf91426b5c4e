// Package backend opens the storage backend named in the configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"anto/internal/backend/filestore"
	"anto/internal/backend/googletasks"
	"anto/internal/backend/sqlstore"
	"anto/internal/config"
	"anto/internal/service"
)

// Open returns the service.Service selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
	logger.Debug("opening backend", "backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendFile, "":
		return filestore.New(cfg.DataPath(), logger), nil
	case config.BackendGoogle:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", service.ErrAuth, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in", service.ErrAuth)
		}
		return googletasks.New(ctx, cfg, logger)
	case config.BackendMySQL:
		return sqlstore.Open(ctx, cfg.MySQL.DSN, logger)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}
