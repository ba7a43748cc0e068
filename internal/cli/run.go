package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/tilework/internal/config"
	"github.com/jask/tilework/internal/drag"
	"github.com/jask/tilework/internal/layoutfile"
	"github.com/jask/tilework/internal/logging"
	"github.com/jask/tilework/internal/panel"
	"github.com/jask/tilework/internal/workbench"
	"github.com/jask/tilework/internal/workspace"
)

func newRunCommand() *cobra.Command {
	var file string
	var reset bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the coding workspace",
		Long: `Open the coding workspace in the terminal.

The stored layout is restored when there is one. Otherwise the layout file
from the config (or --file) is used, and failing that the built-in layout.`,
		Example: `  tilework run
  tilework run --layout pairing --file pairing.yaml
  tilework run --reset`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd.Context())
			if file != "" {
				cfg.Layout.File = file
			}
			return runWorkbench(cmd.Context(), cfg, reset)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "layout file to start from (yaml, toml or json)")
	cmd.Flags().BoolVar(&reset, "reset", false, "ignore the stored layout")
	return cmd
}

func runWorkbench(ctx context.Context, cfg config.Config, reset bool) error {
	logger := logging.FromContext(ctx)
	layouts, closeDB, err := openLayouts(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	tree, err := startingTree(cfg)
	if err != nil {
		return err
	}
	if !reset {
		var restored bool
		tree, restored, err = layouts.Load(ctx, cfg.Layout.Name, tree)
		if err != nil {
			return err
		}
		logger.Info("layout loaded", "name", cfg.Layout.Name, "restored", restored)
	}

	policy, err := drag.ParseUnmountPolicy(cfg.Layout.UnmountPolicy)
	if err != nil {
		return err
	}
	theme, ok := workspace.ThemeByName(cfg.UI.Theme)
	if !ok {
		return fmt.Errorf("unknown theme %q", cfg.UI.Theme)
	}

	m, err := workbench.New(ctx, workbench.Options{
		Tree:                 tree,
		LayoutName:           cfg.Layout.Name,
		Store:                layouts,
		Theme:                &theme,
		MarkdownStyle:        cfg.UI.MarkdownStyle,
		MinPaneCells:         cfg.Layout.MinPaneCells,
		CollapsedCells:       cfg.Layout.CollapsedCells,
		DisablePointerEvents: cfg.Layout.DisablePointerEvents,
		UnmountPolicy:        policy,
		Logger:               logger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// startingTree is the layout used when nothing is stored.
func startingTree(cfg config.Config) (panel.Tree, error) {
	if cfg.Layout.File != "" {
		return layoutfile.Load(cfg.Layout.File)
	}
	return workbench.DefaultTree()
}
