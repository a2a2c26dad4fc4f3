package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/logger"
)

// maxRequestLine bounds one serve-protocol request.
const maxRequestLine = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve resolution requests over stdin/stdout",
	Long: `Runs a long-lived resolver speaking line-delimited JSON: one request
per line on stdin, one response per line on stdout. Intended for editor
plugins that keep a resolver process alive across hover events.

Request:  {"id": "...", "name": "dict.update", "version": "3.12", "library": ""}
Response: {"id": "...", "entry": {...}} or {"id": "...", "error": "..."}

Changes to the config file take effect without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// serveRequest is one resolution request on stdin.
type serveRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Library string `json:"library,omitempty"`
}

// serveResponse is one resolution outcome on stdout. Exactly one of
// Entry and Error is set.
type serveResponse struct {
	ID    string                 `json:"id"`
	Entry *domain.InventoryEntry `json:"entry,omitempty"`
	Error string                 `json:"error,omitempty"`
}

func runServe(cmd *cobra.Command, _ []string) error {
	stopWatch, err := watchConfig()
	if err != nil {
		// Degrade to static settings rather than refusing to serve.
		logger.Warn("config watching unavailable: %v", err)
	} else {
		defer stopWatch()
	}

	logger.Info("serving on stdin/stdout")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestLine)
	out := json.NewEncoder(cmd.OutOrStdout())

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req serveRequest
		if err := json.Unmarshal(line, &req); err != nil {
			respond(out, serveResponse{ID: uuid.New().String(), Error: "malformed request: " + err.Error()})
			continue
		}
		if req.ID == "" {
			req.ID = uuid.New().String()
		}

		entry, err := resolverService.Resolve(cmd.Context(), domain.SymbolQuery{
			Name:    req.Name,
			Version: req.Version,
			Library: req.Library,
		})
		if err != nil {
			respond(out, serveResponse{ID: req.ID, Error: errorMessage(err)})
			continue
		}
		respond(out, serveResponse{ID: req.ID, Entry: entry})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	return nil
}

func respond(out *json.Encoder, resp serveResponse) {
	if err := out.Encode(resp); err != nil {
		logger.Warn("writing response: %v", err)
	}
}

// errorMessage maps internal errors to stable protocol strings.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	default:
		return "resolution failed: " + err.Error()
	}
}

// watchConfig reloads settings when the config file changes. Editors
// replace files on save, so creates and renames in the config directory
// count as changes too.
func watchConfig() (stop func(), err error) {
	if configStore == nil {
		return nil, errors.New("no config store")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(configStore.Path())); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(configStore.Path()) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := configStore.Load(); err != nil {
					logger.Warn("reloading config failed: %v", err)
					continue
				}
				resolverService.UpdateSettings(configStore.Settings())
				logger.Info("config reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher: %v", err)
			}
		}
	}()

	return func() {
		close(done)
		if err := watcher.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Warn("closing config watcher: %v", err)
		}
	}, nil
}
