package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/tilework/internal/layoutfile"
	"github.com/jask/tilework/internal/panel"
)

func newValidateCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a layout file",
		Long: `Check a layout file and list every problem found in it.

With --format the normalized layout is printed instead of a summary.`,
		Example: `  tilework validate layout.yaml
  tilework validate layout.toml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			tree, err := layoutfile.Load(path)
			if err != nil {
				var ve *panel.ValidationError
				if errors.As(err, &ve) {
					for _, v := range ve.Violations {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
					}
					return fmt.Errorf("%s: %d problem(s)", path, len(ve.Violations))
				}
				return err
			}
			if format != "" {
				data, err := layoutfile.Marshal(tree, layoutfile.Format(format))
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			items := panel.Items(tree)
			tabs := 0
			for _, it := range items {
				tabs += len(it.Tabs)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d items, %d tabs)\n", path, len(items), tabs)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "print the normalized layout as yaml, toml or json")
	return cmd
}
