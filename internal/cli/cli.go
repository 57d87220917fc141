// Package cli implements the flowgrid command-line interface.
//
// This package provides commands for computing canvas layouts from flow
// snapshots, routing fan-in connections, tidying bends and container grids,
// and rendering visual previews. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout plan for a flow snapshot
//   - route: Spread fan-in connection labels with bend points
//   - move: Translate a snapshot by a fixed offset
//   - tidy: Clear bends and pack containers into a grid
//   - render: Generate DOT or SVG previews of a snapshot
//   - show: Inspect a computed plan interactively
//   - serve: Run the layout HTTP service
//   - cache: Manage the local plan cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/flowgrid/flowgrid/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/buildinfo"
	"github.com/flowgrid/flowgrid/pkg/pipeline"
	"github.com/flowgrid/flowgrid/pkg/plancache"
	"github.com/flowgrid/flowgrid/pkg/planstore"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowgrid"

	// defaultOrigin is the default top-left coordinate for the spine head.
	defaultOriginX = 400
	defaultOriginY = 400
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "flowgrid",
		Short:        "Flowgrid computes tidy layouts for flow canvases",
		Long:         `Flowgrid is a CLI tool for laying out flow-based processing graphs on a canvas, stacking the dominant path vertically and forking side branches diagonally.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+defaultConfigHint+")")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.tidyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A plan store is only
// dialed when needStore is set, so commands that never persist do not pay
// for a Mongo connection.
func (c *CLI) newRunner(ctx context.Context, noCache, needStore bool) (*pipeline.Runner, error) {
	cache, err := c.newPlanCache(noCache)
	if err != nil {
		return nil, err
	}
	var store planstore.Store
	if needStore {
		store, err = c.newPlanStore(ctx)
		if err != nil {
			cache.Close()
			return nil, err
		}
	}
	return pipeline.NewRunner(cache, nil, store, c.Logger), nil
}

func (c *CLI) newPlanCache(noCache bool) (plancache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return plancache.NewNullCache(), nil
	}
	if addr := c.Config.Cache.RedisAddress; addr != "" {
		return plancache.NewRedisCache(addr, c.Config.Cache.RedisPassword, c.Config.Cache.RedisDB), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return plancache.NewNullCache(), nil
	}
	return plancache.NewFileCache(dir)
}

func (c *CLI) newPlanStore(ctx context.Context) (planstore.Store, error) {
	uri := c.Config.Store.MongoURI
	if uri == "" {
		return nil, fmt.Errorf("plan store not configured: set store.mongo_uri in %s", defaultConfigHint)
	}
	return planstore.NewMongoStore(ctx, uri, c.Config.Store.Database(), c.Config.Store.Collection())
}

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills layout options from the config file for flags the user
// did not set on the command line. Flags always win.
func applyConfig(cmd *cobra.Command, opts *pipeline.Options, cfg Config) {
	if !cmd.Flags().Changed("origin-x") && cfg.Layout.OriginX != 0 {
		opts.OriginX = cfg.Layout.OriginX
	}
	if !cmd.Flags().Changed("origin-y") && cfg.Layout.OriginY != 0 {
		opts.OriginY = cfg.Layout.OriginY
	}
	if !cmd.Flags().Changed("max-depth") && cfg.Layout.MaxDepth != 0 {
		opts.MaxDepth = cfg.Layout.MaxDepth
	}
	if !cmd.Flags().Changed("route") && cfg.Layout.RouteFanIn {
		opts.RouteFanIn = true
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
