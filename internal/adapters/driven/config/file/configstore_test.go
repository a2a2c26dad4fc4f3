package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

func TestMissingFileYieldsDefaults(t *testing.T) {
	s, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings := s.Settings()
	assert.Equal(t, domain.DefaultSettings().InventoryTTL, settings.InventoryTTL)
	assert.Equal(t, domain.DefaultSettings().RequestTimeout, settings.RequestTimeout)
	assert.True(t, settings.AutoDiscovery)
}

func TestLoadParsesAllSections(t *testing.T) {
	dir := t.TempDir()
	cfg := `
[cache]
inventory_ttl_days = 14
result_ttl_hours = 2
discovery_ttl_hours = 48
memory_size = 512

[network]
request_timeout_seconds = 20
github_token = "ghp_test"

[discovery]
auto = false

[breaker]
failure_threshold = 3
success_threshold = 1
timeout_seconds = 30
reset_timeout_seconds = 90

[libraries.internal-docs]
inventory_url = "https://docs.internal.example/objects.inv"
base_url = "https://docs.internal.example/"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0600))

	s, err := NewConfigStore(dir)
	require.NoError(t, err)

	settings := s.Settings()
	assert.Equal(t, 14*24*time.Hour, settings.InventoryTTL)
	assert.Equal(t, 2*time.Hour, settings.ResultTTL)
	assert.Equal(t, 48*time.Hour, settings.DiscoveryTTL)
	assert.Equal(t, 512, settings.MemoryCacheSize)
	assert.Equal(t, 20*time.Second, settings.RequestTimeout)
	assert.Equal(t, "ghp_test", settings.GitHubToken)
	assert.False(t, settings.AutoDiscovery)
	assert.Equal(t, 3, settings.Breaker.FailureThreshold)
	assert.Equal(t, 1, settings.Breaker.SuccessThreshold)
	assert.Equal(t, 30*time.Second, settings.Breaker.Timeout)
	assert.Equal(t, 90*time.Second, settings.Breaker.ResetTimeout)

	inv, base, ok := settings.LibraryLocation("internal-docs", "3")
	require.True(t, ok)
	assert.Equal(t, "https://docs.internal.example/objects.inv", inv)
	assert.Equal(t, "https://docs.internal.example/", base)
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[cache]\ninventory_ttl_days = 1\n"), 0600))

	s, err := NewConfigStore(dir)
	require.NoError(t, err)

	settings := s.Settings()
	assert.Equal(t, 24*time.Hour, settings.InventoryTTL)
	assert.Equal(t, domain.DefaultSettings().ResultTTL, settings.ResultTTL)
	assert.Equal(t, domain.DefaultSettings().MemoryCacheSize, settings.MemoryCacheSize)
	assert.True(t, settings.AutoDiscovery)
}

func TestMalformedConfigIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("this is { not toml"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	s, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.True(t, s.Settings().AutoDiscovery)

	require.NoError(t, os.WriteFile(s.Path(), []byte("[discovery]\nauto = false\n"), 0600))
	require.NoError(t, s.Load())
	assert.False(t, s.Settings().AutoDiscovery)

	// Deleting the file resets to defaults on the next load.
	require.NoError(t, os.Remove(s.Path()))
	require.NoError(t, s.Load())
	assert.True(t, s.Settings().AutoDiscovery)
}

func TestRequestTimeoutClampedToFloor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[network]\nrequest_timeout_seconds = 1\n"), 0600))

	s, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.MinRequestTimeout, s.Settings().RequestTimeout)
}
