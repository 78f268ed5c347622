package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/droidview/pkg/cache"
	"github.com/matzehuels/droidview/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the conversion cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached conversion",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			store, err := c.openCache(cmd.Context(), settings.Cache, false)
			if err != nil {
				return err
			}
			defer store.Close()

			if _, ok := store.(*cache.NullCache); ok {
				printInfo("Cache is disabled")
				return nil
			}
			clearer, ok := store.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", backendName(settings.Cache))
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %s cache", backendName(settings.Cache))
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := c.loadSettings()
			if err != nil {
				return err
			}
			if settings.Cache.Dir != "" {
				fmt.Println(settings.Cache.Dir)
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

func backendName(cfg config.Cache) string {
	if cfg.Backend == "" {
		return config.CacheFile
	}
	return cfg.Backend
}
