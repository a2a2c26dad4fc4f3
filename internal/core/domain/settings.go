package domain

import "time"

// Settings holds all tunables the resolution engine consumes. Loaded
// from the config file; every field has a working default so a missing
// config file means default behaviour, never an error.
type Settings struct {
	// InventoryTTL is how long a fetched inventory stays fresh in the
	// persistent cache before conditional revalidation.
	InventoryTTL time.Duration

	// ResultTTL bounds resolved-symbol entries in the memory cache.
	ResultTTL time.Duration

	// DiscoveryTTL is how long discovery outcomes (positive or
	// negative) are trusted.
	DiscoveryTTL time.Duration

	// RequestTimeout bounds each outbound HTTP request.
	RequestTimeout time.Duration

	// MemoryCacheSize caps the resolved-result LRU cache.
	MemoryCacheSize int

	// AutoDiscovery enables probing documentation hosts for libraries
	// with no preconfigured inventory.
	AutoDiscovery bool

	// Breaker tunes all circuit breakers.
	Breaker BreakerConfig

	// GitHubToken optionally authenticates discovery's GitHub metadata
	// lookups to avoid anonymous rate limits.
	GitHubToken string

	// Libraries overrides or adds per-library inventory locations,
	// keyed by library name.
	Libraries map[string]LibraryOverride
}

// LibraryOverride pins a library to an explicit inventory location,
// bypassing both the built-in table and discovery.
type LibraryOverride struct {
	// InventoryURL is the objects.inv location.
	InventoryURL string

	// BaseURL is the documentation root. Defaults to the inventory
	// URL's directory.
	BaseURL string
}

// MinRequestTimeout is the floor for RequestTimeout; anything lower is
// indistinguishable from a dead network on slow links.
const MinRequestTimeout = 2 * time.Second

// DefaultSettings returns settings with working defaults.
func DefaultSettings() Settings {
	return Settings{
		InventoryTTL:    7 * 24 * time.Hour,
		ResultTTL:       time.Hour,
		DiscoveryTTL:    24 * time.Hour,
		RequestTimeout:  10 * time.Second,
		MemoryCacheSize: 256,
		AutoDiscovery:   true,
		Breaker:         DefaultBreakerConfig(),
	}
}

// WithDefaults fills unset fields from DefaultSettings and clamps the
// request timeout to its floor.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.InventoryTTL <= 0 {
		s.InventoryTTL = d.InventoryTTL
	}
	if s.ResultTTL <= 0 {
		s.ResultTTL = d.ResultTTL
	}
	if s.DiscoveryTTL <= 0 {
		s.DiscoveryTTL = d.DiscoveryTTL
	}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = d.RequestTimeout
	}
	if s.RequestTimeout < MinRequestTimeout {
		s.RequestTimeout = MinRequestTimeout
	}
	if s.MemoryCacheSize <= 0 {
		s.MemoryCacheSize = d.MemoryCacheSize
	}
	s.Breaker = s.Breaker.WithDefaults()
	return s
}

// LibraryLocation returns the inventory and base URLs for a library,
// consulting overrides first, then the built-in table. ok is false for
// libraries only discovery can place.
func (s Settings) LibraryLocation(name, version string) (inventoryURL, baseURL string, ok bool) {
	if o, found := s.Libraries[name]; found && o.InventoryURL != "" {
		base := o.BaseURL
		if base == "" {
			base = baseOfInventory(o.InventoryURL)
		}
		return o.InventoryURL, base, true
	}
	if lib, found := LookupKnown(name); found {
		return lib.InventoryURL(version), lib.BaseURL(version), true
	}
	return "", "", false
}

// baseOfInventory strips the final path element from an inventory URL.
func baseOfInventory(invURL string) string {
	for i := len(invURL) - 1; i >= 0; i-- {
		if invURL[i] == '/' {
			return invURL[:i+1]
		}
	}
	return invURL
}
