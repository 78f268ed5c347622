package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/droidview/pkg/cache"
	"github.com/matzehuels/droidview/pkg/config"
	"github.com/matzehuels/droidview/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var imageDir string

	cmd := &cobra.Command{
		Use:   "inspect <snapshot.json>",
		Short: "Browse the view tree of a snapshot",
		Long: `Convert a snapshot without writing anything and browse the resulting view
tree in the terminal. The panel below the tree shows the kind, bounds,
alignment, constraints and attributes of the selected view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := c.loadSettings()
			if err != nil {
				return err
			}

			// The tree only exists on a fresh build, so skip the cache.
			runner := pipeline.NewRunner(cache.NewNullCache(), nil, loggerFromContext(ctx))
			result, err := runner.Execute(ctx, pipeline.Options{
				SnapshotPath: args[0],
				Settings:     &settings,
				Formats:      []string{config.FormatXML},
				ImageDir:     imageDir,
				Logger:       loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewTreeModel(result.Document), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("inspect: %w", err)
			}
			for _, w := range result.Warnings {
				printWarning("%s", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imageDir, "image-dir", "", "directory for relative image sources (default: snapshot directory)")
	return cmd
}
