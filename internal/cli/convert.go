package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/droidview/pkg/pipeline"
)

// convertFlags holds flags shared by convert and capture --convert.
type convertFlags struct {
	output     string
	formats    string
	layoutName string
	imageDir   string
	noCache    bool
	refresh    bool
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "out", "output directory")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output formats: xml,json,dot,svg (default from settings)")
	cmd.Flags().StringVar(&f.layoutName, "layout-name", "", "layout resource name (default activity_main)")
	cmd.Flags().StringVar(&f.imageDir, "image-dir", "", "directory for relative image sources (default: snapshot directory)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the conversion cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached conversions")
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <snapshot.json>",
		Short: "Convert a snapshot into Android layout resources",
		Long: `Convert a JSON page snapshot into Android resources.

The layout is written to res/layout/<name>.xml with strings, colors, styles
and background drawables next to it. Debug formats (json, dot, svg) describe
the view tree and are written to the output directory root.`,
		Example: `  droidview convert page.json
  droidview convert page.json -o app/src/main -f xml,svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{SnapshotPath: args[0]}
			_, err := c.runConvert(cmd.Context(), opts, flags)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// runConvert runs the pipeline and writes its artifacts below flags.output.
func (c *CLI) runConvert(ctx context.Context, opts pipeline.Options, flags convertFlags) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)
	settings, err := c.loadSettings()
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, settings, flags.noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	opts.Settings = &settings
	opts.Formats = parseFormats(flags.formats)
	opts.LayoutName = flags.layoutName
	opts.ImageDir = flags.imageDir
	opts.Refresh = flags.refresh
	opts.Logger = logger

	spinner := c.newSpinner(ctx, "Converting "+describeSource(opts)+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	paths, err := writeArtifacts(flags.output, result.Artifacts)
	if err != nil {
		return nil, err
	}

	printSuccess("Converted %s", describeSource(opts))
	printStats(result.Stats.Views, result.Stats.Depth, result.CacheHit)
	if img := result.Stats.Images; img.Pending > 0 {
		printKeyValue("images", fmt.Sprintf("%d decoded, %d failed", img.Decoded, img.Failed))
	}
	for _, p := range paths {
		printFile(p)
	}
	for _, w := range result.Warnings {
		printWarning("%s", w)
	}
	return result, nil
}

// writeArtifacts writes every artifact below dir and returns the written
// paths in order.
func writeArtifacts(dir string, artifacts map[string][]byte) ([]string, error) {
	var paths []string
	for _, name := range slices.Sorted(maps.Keys(artifacts)) {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return paths, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, artifacts[name], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func describeSource(opts pipeline.Options) string {
	if opts.Snapshot != nil && opts.Snapshot.URL != "" {
		return opts.Snapshot.URL
	}
	return opts.SnapshotPath
}
