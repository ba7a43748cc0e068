// Package cli provides the tilework command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jask/tilework/internal/config"
	"github.com/jask/tilework/internal/database"
	"github.com/jask/tilework/internal/database/repository"
	"github.com/jask/tilework/internal/logging"
	"github.com/jask/tilework/internal/service"
)

// Version is set at build time.
var Version = "0.1.0"

type configKey struct{}

func NewRootCmd() *cobra.Command {
	var cfgFile, dbPath, layoutName string
	var logCloser io.Closer

	rootCmd := &cobra.Command{
		Use:   "tilework",
		Short: "Tiling panel workspace for the terminal",
		Long: `tilework lays out tabbed panes in resizable splits. Dividers are dragged
with the mouse, panes collapse to a strip and every change to the layout is
saved under a name so the next session starts where the last one ended.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.LoadFrom(cfgFile)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}
			if layoutName != "" {
				cfg.Layout.Name = layoutName
			}
			logger, closer, err := logging.New(cfg.Log.Path, cfg.Log.Level)
			if err != nil {
				return err
			}
			logCloser = closer
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			cmd.SetContext(logging.WithLogger(ctx, logger))
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if logCloser == nil {
				return nil
			}
			return logCloser.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/tilework/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "layout database path")
	rootCmd.PersistentFlags().StringVarP(&layoutName, "layout", "l", "", "name the layout is stored under")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newLayoutsCommand())
	return rootCmd
}

// Execute runs the root command. Errors are returned, not printed.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func configFrom(ctx context.Context) config.Config {
	if c, ok := ctx.Value(configKey{}).(config.Config); ok {
		return c
	}
	c, _ := config.Load()
	return c
}

// openLayouts opens the migrated layout database. The returned func closes it.
func openLayouts(cfg config.Config, logger *slog.Logger) (*service.LayoutService, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	svc := &service.LayoutService{
		Layouts:      repository.NewLayoutRepo(db),
		HistoryLimit: cfg.Layout.HistoryLimit,
		Logger:       logger,
	}
	return svc, db.Close, nil
}
