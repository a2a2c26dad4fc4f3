package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/breaker"
	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/storage/disk"
	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/core/services"
	"github.com/custodia-labs/pyref-cli/internal/inventory"
)

// offlineFetcher fails every request, forcing keyword and synthetic
// resolution paths.
type offlineFetcher struct{}

func (offlineFetcher) Fetch(context.Context, string, driven.FetchOptions) (*driven.FetchResult, error) {
	return nil, errors.New("network unreachable")
}

// withTestResolver swaps the package-level resolver for the test's
// lifetime.
func withTestResolver(t *testing.T) {
	t.Helper()
	results, err := memory.New[*domain.InventoryEntry](16, time.Hour)
	require.NoError(t, err)
	indexes, err := memory.New[*inventory.Index](4, time.Hour)
	require.NoError(t, err)
	store, err := disk.NewFileCache(t.TempDir())
	require.NoError(t, err)

	prev := resolverService
	resolverService = services.NewResolverService(
		results, indexes, store, offlineFetcher{},
		breaker.NewRegistry(domain.DefaultBreakerConfig()), nil,
		domain.DefaultSettings(),
	)
	t.Cleanup(func() { resolverService = prev })
}

func TestServeExchange(t *testing.T) {
	withTestResolver(t)

	input := strings.Join([]string{
		`{"id": "1", "name": "yield"}`,
		`{"id": "2", "name": "no_such_symbol_anywhere"}`,
		`not even json`,
		``,
	}, "\n")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader(input))
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runServe(cmd, nil))

	var responses []serveResponse
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp serveResponse
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	require.Len(t, responses, 3)

	// Keyword resolves offline.
	assert.Equal(t, "1", responses[0].ID)
	require.NotNil(t, responses[0].Entry)
	assert.Contains(t, responses[0].Entry.URI, "lexical_analysis.html#keywords")

	// Miss reports a stable error string.
	assert.Equal(t, "2", responses[1].ID)
	assert.Equal(t, "not found", responses[1].Error)

	// Malformed input gets a generated id and an error.
	assert.NotEmpty(t, responses[2].ID)
	assert.Contains(t, responses[2].Error, "malformed request")
}

func TestServeRequestDecoding(t *testing.T) {
	var req serveRequest
	line := `{"id": "req-1", "name": "json.dumps", "version": "3.12", "library": ""}`
	require.NoError(t, json.Unmarshal([]byte(line), &req))

	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, "json.dumps", req.Name)
	assert.Equal(t, "3.12", req.Version)
	assert.Empty(t, req.Library)
}

func TestServeResponseEncoding(t *testing.T) {
	tests := []struct {
		name string
		resp serveResponse
		want string
	}{
		{
			name: "Found entry omits error",
			resp: serveResponse{ID: "1", Entry: &domain.InventoryEntry{
				Name: "open", Domain: "py", Role: domain.RoleFunction,
				URI: "https://docs.python.org/3/library/functions.html#open",
				Anchor: "open", DisplayName: "open",
			}},
			want: `"entry"`,
		},
		{
			name: "Miss omits entry",
			resp: serveResponse{ID: "2", Error: "not found"},
			want: `"error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
			if tt.resp.Entry != nil {
				assert.NotContains(t, string(data), `"error"`)
			} else {
				assert.NotContains(t, string(data), `"entry"`)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "not found", errorMessage(domain.ErrNotFound))
	assert.Contains(t, errorMessage(domain.ErrInvalidInput), "invalid")
	assert.Contains(t, errorMessage(errors.New("boom")), "resolution failed")
}
