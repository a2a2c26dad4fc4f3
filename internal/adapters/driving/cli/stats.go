package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show resolution usage statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if historyStore == nil {
		return errors.New("resolution history is unavailable")
	}

	stats, err := historyStore.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("aggregating history: %w", err)
	}

	if stats.Total == 0 {
		cmd.Println("No resolutions recorded yet.")
		return nil
	}

	cmd.Printf("Resolutions: %d (%.1f%% found)\n", stats.Total, stats.HitRate()*100)
	cmd.Printf("Average latency: %s\n", stats.AvgDuration)

	if len(stats.BySource) > 0 {
		cmd.Println("By source:")
		sources := make([]string, 0, len(stats.BySource))
		for src := range stats.BySource {
			sources = append(sources, string(src))
		}
		sort.Strings(sources)
		for _, src := range sources {
			cmd.Printf("  %-10s %d\n", src, stats.BySource[domain.ResolutionSource(src)])
		}
	}
	return nil
}
