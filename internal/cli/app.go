package cli

import (
	"context"
	"fmt"

	"github.com/abroadmap/abroadmap/config"
	"github.com/abroadmap/abroadmap/internal/apiclient"
	"github.com/abroadmap/abroadmap/internal/cache"
	"github.com/abroadmap/abroadmap/internal/session"
)

// App is the application root: it owns the one client, the one session and the
// catalog cache for the lifetime of the process.
type App struct {
	Client   *apiclient.Client
	Session  *session.Resolver
	Programs *cache.ProgramsCache
}

// NewApp builds the application from configuration
func NewApp(cfg *config.Config) (*App, error) {
	client, err := apiclient.NewFromConfig(cfg.API)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	return NewAppWithClient(client, cfg.Cache.ProgramsTTLSeconds), nil
}

// NewAppWithClient builds the application around an existing client
func NewAppWithClient(client *apiclient.Client, programsTTLSeconds int) *App {
	return &App{
		Client:   client,
		Session:  session.NewResolver(client),
		Programs: cache.NewProgramsCache(client, programsTTLSeconds),
	}
}

// Start runs the initial identity check and returns a context carrying the session
func (a *App) Start(ctx context.Context) context.Context {
	a.Session.Resolve(ctx)
	return session.NewContext(ctx, a.Session)
}
