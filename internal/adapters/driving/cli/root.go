// Package cli wires the cobra command tree to the core services.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/breaker"
	configfile "github.com/custodia-labs/pyref-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/discovery"
	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/fetch"
	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/storage/disk"
	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/core/services"
	"github.com/custodia-labs/pyref-cli/internal/inventory"
	"github.com/custodia-labs/pyref-cli/internal/logger"
)

var (
	version = "dev"

	verbose   bool
	configDir string
)

// Services shared by the subcommands, wired in initServices.
var (
	configStore     *configfile.ConfigStore
	resolverService *services.ResolverService
	adminService    *services.AdminService
	historyStore    driven.HistoryStore
	breakerRegistry driven.BreakerRegistry
)

var rootCmd = &cobra.Command{
	Use:   "pyref",
	Short: "Resolve Python symbols to documentation URLs",
	Long: `Pyref resolves Python symbol names to their official documentation
URLs by indexing Sphinx inventories, with persistent caching and
automatic documentation discovery for third-party libraries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if historyStore != nil {
			if err := historyStore.Close(); err != nil {
				logger.Warn("closing history store: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostics on stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pyref)")
}

// initServices builds the adapter stack and the core services. Called
// once per invocation from the root command's PersistentPreRunE.
func initServices() error {
	var err error
	configStore, err = configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	settings := configStore.Settings()

	cacheDir := ""
	dataDir := ""
	if configDir != "" {
		cacheDir = filepath.Join(configDir, "cache")
		dataDir = filepath.Join(configDir, "data")
	}

	store, err := disk.NewFileCache(cacheDir)
	if err != nil {
		return fmt.Errorf("opening cache directory: %w", err)
	}

	results, err := memory.New[*domain.InventoryEntry](settings.MemoryCacheSize, settings.ResultTTL)
	if err != nil {
		return fmt.Errorf("creating result cache: %w", err)
	}
	indexes, err := memory.New[*inventory.Index](settings.MemoryCacheSize, settings.InventoryTTL)
	if err != nil {
		return fmt.Errorf("creating index cache: %w", err)
	}

	fetcher := fetch.New(settings.RequestTimeout)
	breakerRegistry = breaker.NewRegistry(settings.Breaker)

	var disco driven.LibraryDiscovery
	if settings.AutoDiscovery {
		disco = discovery.NewProber(fetcher, breakerRegistry, store, settings.DiscoveryTTL,
			discovery.NewGitHubMetadata(settings.GitHubToken))
	}

	resolverService = services.NewResolverService(results, indexes, store, fetcher, breakerRegistry, disco, settings)
	adminService = services.NewAdminService(results, indexes, store, breakerRegistry)

	// History is optional; a broken database must not block resolution.
	historyStore, err = sqlite.NewHistoryStore(dataDir)
	if err != nil {
		logger.Warn("resolution history unavailable: %v", err)
		historyStore = nil
	} else {
		resolverService.SetHistoryStore(historyStore)
	}
	return nil
}

// Execute runs the root command. ver is the build version stamped by
// the linker.
func Execute(ver string) {
	if ver != "" {
		version = ver
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
