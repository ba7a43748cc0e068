package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jask/tilework/internal/layoutfile"
	"github.com/jask/tilework/internal/logging"
	"github.com/jask/tilework/internal/panel"
	"github.com/jask/tilework/internal/service"
)

func newLayoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "Manage stored layouts",
	}
	cmd.AddCommand(
		newLayoutsListCommand(),
		newLayoutsShowCommand(),
		newLayoutsDeleteCommand(),
		newLayoutsRevertCommand(),
		newLayoutsHistoryCommand(),
		newLayoutsImportCommand(),
		newLayoutsExportCommand(),
	)
	return cmd
}

// withLayouts opens the layout service for the duration of fn.
func withLayouts(cmd *cobra.Command, fn func(svc *service.LayoutService) error) error {
	cfg := configFrom(cmd.Context())
	svc, closeDB, err := openLayouts(cfg, logging.FromContext(cmd.Context()))
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(svc)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func newLayoutsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLayouts(cmd, func(svc *service.LayoutService) error {
				rows, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no layouts stored")
					return nil
				}
				t := newTable("NAME", "ITEMS", "UPDATED")
				for _, row := range rows {
					items := "?"
					if tree, err := svc.Show(cmd.Context(), row.Name); err == nil {
						items = strconv.Itoa(len(panel.Items(tree)))
					}
					t.Row(row.Name, items, row.UpdatedAt.Local().Format(time.DateTime))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}
}

func newLayoutsShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLayouts(cmd, func(svc *service.LayoutService) error {
				tree, err := svc.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if format == "" {
					fmt.Fprint(cmd.OutOrStdout(), outline(tree))
					return nil
				}
				data, err := layoutfile.Marshal(tree, layoutfile.Format(format))
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "print as yaml, toml or json instead of an outline")
	return cmd
}

func newLayoutsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored layout and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLayouts(cmd, func(svc *service.LayoutService) error {
				if err := svc.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newLayoutsRevertCommand() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "revert <name>",
		Short: "Restore an earlier revision of a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLayouts(cmd, func(svc *service.LayoutService) error {
				tree, err := svc.Revert(cmd.Context(), args[0], steps)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), outline(tree))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "how many saves to go back")
	return cmd
}

func newLayoutsHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <name>",
		Short: "List the saved revisions of a layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLayouts(cmd, func(svc *service.LayoutService) error {
				revs, err := svc.History(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				if len(revs) == 0 {
					return fmt.Errorf("%w: %q", service.ErrLayoutNotFound, args[0])
				}
				t := newTable("#", "OP", "SAVED")
				for i, rev := range revs {
					t.Row(strconv.Itoa(i), rev.Op, rev.CreatedAt.Local().Format(time.DateTime))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Render())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of revisions to show")
	return cmd
}

func newLayoutsImportCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a layout file under a name",
		Long: `Store a layout file under a name. The name defaults to the configured
layout name, so the next run starts from the imported layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := layoutfile.Load(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = configFrom(cmd.Context()).Layout.Name
			}
			return withLayouts(cmd, func(svc *service.LayoutService) error {
				if err := svc.Save(cmd.Context(), name, "import", tree); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %s\n", args[0], name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name to store the layout under")
	return cmd
}

func newLayoutsExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <file>",
		Short: "Write a stored layout to a yaml, toml or json file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLayouts(cmd, func(svc *service.LayoutService) error {
				tree, err := svc.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := layoutfile.Save(args[1], tree); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
				return nil
			})
		},
	}
}
