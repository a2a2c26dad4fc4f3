package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/breaker"
	"github.com/custodia-labs/pyref-cli/internal/adapters/driven/storage/disk"
	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/inventory"
)

// fakeFetcher serves canned responses by URL and counts calls.
type fakeFetcher struct {
	responses map[string][]byte
	calls     map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string][]byte),
		calls:     make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string, _ driven.FetchOptions) (*driven.FetchResult, error) {
	f.calls[url]++
	body, ok := f.responses[url]
	if !ok {
		return nil, errors.New("HTTP 404 from " + url)
	}
	return &driven.FetchResult{Body: body}, nil
}

func (f *fakeFetcher) totalCalls() int {
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// validInventoryHeader is large enough and carries the signature, which
// is all the discovery probe checks.
func validInventoryHeader() []byte {
	return []byte("# Sphinx inventory version 2\n# " + strings.Repeat("x", inventory.MinPayloadSize) + "\n")
}

func newTestProber(t *testing.T, fetcher driven.Fetcher, repos RepoMetadata) *Prober {
	t.Helper()
	store, err := disk.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return NewProber(fetcher, breaker.NewRegistry(domain.DefaultBreakerConfig()), store, 24*time.Hour, repos)
}

func TestDiscoverReadTheDocs(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.responses["https://attrs.readthedocs.io/en/stable/objects.inv"] = validInventoryHeader()

	p := newTestProber(t, fetcher, nil)

	result, err := p.Discover(context.Background(), "attrs")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, "https://attrs.readthedocs.io/en/stable/objects.inv", result.InventoryURL)
	assert.Equal(t, "https://attrs.readthedocs.io/en/stable/", result.BaseURL)
	assert.Equal(t, "attrs", result.Library)
}

func TestDiscoverViaPackageMetadata(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.responses["https://pypi.org/pypi/somelib/json"] = []byte(
		`{"info": {"project_urls": {"Documentation": "https://docs.somelib.example/"}}}`)
	fetcher.responses["https://docs.somelib.example/objects.inv"] = validInventoryHeader()

	p := newTestProber(t, fetcher, nil)

	result, err := p.Discover(context.Background(), "somelib")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, "https://docs.somelib.example/objects.inv", result.InventoryURL)
}

type fakeRepos struct {
	homepage string
}

func (f fakeRepos) Homepage(context.Context, string, string) (string, error) {
	return f.homepage, nil
}

func TestDiscoverViaRepoHomepage(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.responses["https://pypi.org/pypi/somelib/json"] = []byte(
		`{"info": {"project_urls": {"Source": "https://github.com/someorg/somelib"}}}`)
	fetcher.responses["https://somelib.example.io/objects.inv"] = validInventoryHeader()

	p := newTestProber(t, fetcher, fakeRepos{homepage: "https://somelib.example.io"})

	result, err := p.Discover(context.Background(), "somelib")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, "https://somelib.example.io/objects.inv", result.InventoryURL)
}

func TestDiscoverRejectsNonInventories(t *testing.T) {
	fetcher := newFakeFetcher()
	// A 200 response that is an HTML error page, not an inventory.
	fetcher.responses["https://badlib.readthedocs.io/en/stable/objects.inv"] = []byte(
		"<!DOCTYPE html>" + strings.Repeat("x", inventory.MinPayloadSize))

	p := newTestProber(t, fetcher, nil)

	result, err := p.Discover(context.Background(), "badlib")
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestDiscoverCachesNegativeOutcomes(t *testing.T) {
	fetcher := newFakeFetcher()
	p := newTestProber(t, fetcher, nil)

	first, err := p.Discover(context.Background(), "ghostlib")
	require.NoError(t, err)
	require.False(t, first.Found)

	callsAfterFirst := fetcher.totalCalls()
	require.Greater(t, callsAfterFirst, 0)

	second, err := p.Discover(context.Background(), "ghostlib")
	require.NoError(t, err)
	assert.False(t, second.Found)
	// The cached outcome answered; no new probes went out.
	assert.Equal(t, callsAfterFirst, fetcher.totalCalls())
}

func TestDiscoverEmptyLibrary(t *testing.T) {
	p := newTestProber(t, newFakeFetcher(), nil)

	_, err := p.Discover(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGithubProject(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{name: "Plain repo URL", url: "https://github.com/numpy/numpy", wantOwner: "numpy", wantRepo: "numpy", wantOK: true},
		{name: "Trailing path", url: "https://github.com/pandas-dev/pandas/issues", wantOwner: "pandas-dev", wantRepo: "pandas", wantOK: true},
		{name: "Not github", url: "https://gitlab.com/owner/repo", wantOK: false},
		{name: "Owner only", url: "https://github.com/numpy", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, ok := githubProject(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantOwner, owner)
				assert.Equal(t, tt.wantRepo, repo)
			}
		})
	}
}
