package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/droidview/pkg/capture"
	"github.com/matzehuels/droidview/pkg/pipeline"
	"github.com/matzehuels/droidview/pkg/snapshot"
)

// captureCommand creates the capture command.
func (c *CLI) captureCommand() *cobra.Command {
	var (
		snapshotPath string
		execPath     string
		headful      bool
		convert      bool
		flags        convertFlags
	)

	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Capture a live page into a snapshot",
		Long: `Load a page in headless Chrome and save a JSON snapshot of its DOM,
computed styles and geometry.

The capture waits for the configured selector and for every image to decode
or fail. With --convert the snapshot is converted right away.`,
		Example: `  droidview capture https://example.com
  droidview capture https://example.com -s page.json --convert -o app/src/main`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			capturer, err := capture.New(capture.Options{
				Settings: settings.Capture,
				ExecPath: execPath,
				Headful:  headful,
				Logger:   loggerFromContext(ctx),
			})
			if err != nil {
				return err
			}

			spinner := c.newSpinner(ctx, "Capturing "+args[0]+"...")
			spinner.Start()
			doc, err := capturer.Capture(ctx, args[0])
			if err != nil {
				spinner.StopWithError("Capture failed")
				return err
			}
			spinner.Stop()

			if err := snapshot.WriteFile(snapshotPath, doc); err != nil {
				return err
			}
			printSuccess("Captured %s", args[0])
			printFile(snapshotPath)
			for _, w := range doc.Warnings {
				printWarning("%s", w)
			}

			if !convert {
				printNextStep("Convert it", "droidview convert "+snapshotPath)
				return nil
			}
			_, err = c.runConvert(ctx, pipeline.Options{Snapshot: doc}, flags)
			return err
		},
	}

	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "snapshot.json", "snapshot output file")
	cmd.Flags().StringVar(&execPath, "chrome", "", "path to the Chrome executable")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	cmd.Flags().BoolVar(&convert, "convert", false, "convert the snapshot after capturing")
	flags.register(cmd)
	return cmd
}
