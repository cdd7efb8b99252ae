package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout cache",
	}

	cmd.AddCommand(c.cachePurgeCommand("clear", "Remove every cached layout and artifact", true))
	cmd.AddCommand(c.cachePurgeCommand("prune", "Remove expired and unreadable cache entries", false))
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cachePurgeCommand creates a subcommand purging the file cache.
func (c *CLI) cachePurgeCommand(use, short string, all bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrinter(cmd.OutOrStdout())
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
				p.info("Cache is empty")
				return nil
			}

			store, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			fc, ok := store.(*cache.FileCache)
			if !ok {
				return fmt.Errorf("unexpected cache type %T", store)
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			count, err := fc.Purge(cmd.Context(), all)
			if err != nil {
				return err
			}
			prog.done("purged cache", "dir", fc.Dir(), "all", all, "removed", count)

			p.success("Removed %d cached entries", count)
			p.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
