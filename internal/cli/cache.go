package cli

import (
	"fmt"

	"github.com/rapportlabs/rapport/internal/cache"
	"github.com/spf13/cobra"
)

var cacheDir string

// cacheCmd manages the on-disk page cache
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
	Long: `Manage the on-disk cache of fetched source pages. Cached pages let a
re-run of the same profile skip refetching the sites it cites.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig()
		if err != nil {
			return err
		}
		dir := cfg.Cache.Dir
		if cacheDir != "" {
			dir = cacheDir
		}

		if err := cache.NewDiskCache(dir, 0).Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Printf("✓ Cleared page cache: %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheClearCmd.Flags().StringVar(&cacheDir, "dir", "", "cache directory (default: the configured cache dir)")
}
