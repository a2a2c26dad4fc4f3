package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

var (
	resolvePython  string
	resolveLibrary string
	resolveJSON    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [symbol]",
	Short: "Resolve a Python symbol to its documentation URL",
	Long: `Resolves a Python symbol name to the official documentation URL.
Consults the standard library inventory by default; pass --library to
target a third-party package. Unknown libraries are discovered through
their package metadata when auto-discovery is enabled.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolvePython, "python", domain.DefaultPythonVersion, "Python version for standard-library documentation")
	resolveCmd.Flags().StringVarP(&resolveLibrary, "library", "l", "", "library the symbol belongs to")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "output the entry as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	query := domain.SymbolQuery{
		Name:    args[0],
		Version: resolvePython,
		Library: resolveLibrary,
	}

	entry, err := resolverService.Resolve(cmd.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no documentation found for %q", args[0])
		}
		return fmt.Errorf("resolving %q: %w", args[0], err)
	}

	if resolveJSON {
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(entry.URI)
	if verbose {
		cmd.Printf("  name:   %s\n", entry.Title())
		cmd.Printf("  role:   %s\n", entry.Role)
		cmd.Printf("  domain: %s\n", entry.Domain)
	}
	return nil
}
