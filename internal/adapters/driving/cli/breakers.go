package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

var breakersReset bool

var breakersCmd = &cobra.Command{
	Use:   "breakers",
	Short: "Show circuit breaker states",
	Long: `Shows the circuit breaker protecting each documentation host.
An open breaker means recent requests to that host failed and new ones
are being rejected until the reset timeout elapses.`,
	RunE: runBreakers,
}

func init() {
	breakersCmd.Flags().BoolVar(&breakersReset, "reset", false, "reset every breaker to closed")
	rootCmd.AddCommand(breakersCmd)
}

func runBreakers(cmd *cobra.Command, _ []string) error {
	if breakersReset {
		breakerRegistry.ResetAll()
		cmd.Println("All breakers reset.")
		return nil
	}

	stats := breakerRegistry.Stats()
	if len(stats) == 0 {
		cmd.Println("No breakers active (no requests made yet).")
		return nil
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := stats[name]
		cmd.Printf("%s: %s (%d requests, %d failures)\n",
			name, s.State, s.TotalRequests, s.TotalFailures)
	}
	return nil
}
