package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pyref-cli/internal/adapters/driving/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show an interactive cache and breaker dashboard",
	Long: `Opens a terminal dashboard showing cache sizes and per-host circuit
breaker states, refreshed on demand.

Controls:
  r   - Refresh
  q   - Quit`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	// Fall back to a plain report when stdout is not a terminal, so
	// `pyref status | cat` stays usable.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := adminService.Report(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading status: %w", err)
		}
		cmd.Printf("cache files: %d (%s)\n", report.Persistent.Files, humanBytes(report.Persistent.Bytes))
		cmd.Printf("memory entries: %d\n", report.MemoryEntries)
		for name, s := range report.Breakers {
			cmd.Printf("breaker %s: %s\n", name, s.State)
		}
		return nil
	}

	app := tui.NewStatusModel(adminService)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("status dashboard error: %w", err)
	}
	return nil
}
