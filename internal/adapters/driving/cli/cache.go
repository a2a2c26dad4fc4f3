package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the documentation caches",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		report, err := adminService.Report(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		cmd.Printf("Persistent cache: %s\n", report.Persistent.Path)
		cmd.Printf("  files: %d\n", report.Persistent.Files)
		cmd.Printf("  size:  %s\n", humanBytes(report.Persistent.Bytes))
		cmd.Printf("Memory cache: %d entries\n", report.MemoryEntries)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached inventories and results",
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := adminService.ClearCaches(cmd.Context())
		if err != nil {
			return fmt.Errorf("clearing caches: %w", err)
		}
		if !result.Success {
			cmd.Printf("Cleared %d files; some deletions failed.\n", result.FilesDeleted)
			return nil
		}
		cmd.Printf("Cleared %d cached files.\n", result.FilesDeleted)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
