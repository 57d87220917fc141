package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/internal/server"
	"github.com/flowgrid/flowgrid/pkg/pipeline"
	"github.com/flowgrid/flowgrid/pkg/planstore"
)

const defaultServeAddress = ":8080"

// serveCommand creates the serve command for running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		address string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP service",
		Long: `Run the layout HTTP service.

The service exposes the layout, route, transpose, and grid operations as a
JSON API under /v1, plus read access to the plan archive. It shares the
plan cache configuration with the CLI; without a configured Mongo store
the archive is kept in memory and lost on restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && c.Config.Server.Address != "" {
				address = c.Config.Server.Address
			}
			return c.runServe(cmd.Context(), address, noCache)
		},
	}

	cmd.Flags().StringVar(&address, "addr", defaultServeAddress, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable plan caching")

	return cmd
}

// runServe wires the runner and handler, then serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, address string, noCache bool) error {
	cache, err := c.newPlanCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	var store planstore.Store
	if c.Config.Store.MongoURI != "" {
		store, err = c.newPlanStore(ctx)
		if err != nil {
			cache.Close()
			return fmt.Errorf("initialize store: %w", err)
		}
	} else {
		store = planstore.NewMemoryStore()
		c.Logger.Warn("no Mongo store configured, archiving plans in memory")
	}

	runner := pipeline.NewRunner(cache, nil, store, c.Logger)
	defer runner.Close(context.WithoutCancel(ctx))

	srv := &http.Server{
		Addr:              address,
		Handler:           server.NewHandler(runner, store, c.Logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
