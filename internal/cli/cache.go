package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/radiant/pkg/cache"
)

// cacheDir is $XDG_CACHE_HOME/radiant, or ~/.cache/radiant.
func cacheDir() (string, error) {
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate cache dir: %w", err)
	}
	return filepath.Join(home, ".cache", appName), nil
}

// newArtifactCache opens the on-disk cache of rendered output. Rendering
// never fails for lack of a cache: without a home directory it runs
// uncached.
func newArtifactCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openFileCache opens the cache for the maintenance commands.
func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// cacheCommand groups the artifact cache maintenance commands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the rendered artifact cache",
		Long: `Rendered SVG, DOT, PDF and PNG output is cached for a week, keyed by the
frame geometry, the color palette and the render flags. Pass --no-cache to
render to bypass it.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
				return err
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show entry count, size and expired entries",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				fc, err := openFileCache()
				if err != nil {
					return err
				}
				st, err := fc.Stats()
				if err != nil {
					return err
				}
				printKeyValue("Directory", fc.Dir())
				printKeyValue("Entries", strconv.Itoa(st.Entries))
				printKeyValue("Size", formatBytes(st.Bytes))
				printKeyValue("Expired", strconv.Itoa(st.Expired))
				return nil
			},
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Remove expired and unreadable entries",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return sweepCache("Pruned", (*cache.FileCache).Prune)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached artifact",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return sweepCache("Cleared", (*cache.FileCache).Clear)
			},
		},
	)
	return cmd
}

func sweepCache(verb string, sweep func(*cache.FileCache) (int, error)) error {
	fc, err := openFileCache()
	if err != nil {
		return err
	}
	n, err := sweep(fc)
	if err != nil {
		return err
	}
	if n == 0 {
		printInfo("Nothing to remove")
		return nil
	}
	printSuccess("%s %d cached artifacts", verb, n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

// formatBytes renders n with a binary unit, e.g. "1.5 KiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
