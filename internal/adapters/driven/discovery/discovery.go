// Package discovery locates documentation for libraries that were
// never configured: it asks the PyPI metadata API for project URLs,
// tries conventional documentation-hosting patterns, validates each
// candidate inventory, and caches the outcome (positive or negative)
// for a long TTL.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
	"github.com/custodia-labs/pyref-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pyref-cli/internal/inventory"
	"github.com/custodia-labs/pyref-cli/internal/logger"
)

// Ensure Prober implements the interface.
var _ driven.LibraryDiscovery = (*Prober)(nil)

// maxProbeBytes bounds each validating fetch. Enough to pass the
// shared minimum-size check without downloading a whole inventory.
const maxProbeBytes = 64 * 1024

// maxMetadataBytes bounds the PyPI metadata response.
const maxMetadataBytes = 1 << 20

// Prober implements library discovery. Every candidate fetch runs
// under the circuit breaker for its host; failures of individual
// candidates never abort the search.
type Prober struct {
	fetcher  driven.Fetcher
	breakers driven.BreakerRegistry
	store    driven.PersistentCache
	ttl      time.Duration
	now      func() time.Time

	// pypiBase is swapped for a test server in tests.
	pypiBase string

	// repos resolves GitHub project URLs to their homepage. Optional.
	repos RepoMetadata
}

// NewProber creates a discovery prober. repos may be nil to skip the
// GitHub metadata probe.
func NewProber(fetcher driven.Fetcher, breakers driven.BreakerRegistry, store driven.PersistentCache, ttl time.Duration, repos RepoMetadata) *Prober {
	return &Prober{
		fetcher:  fetcher,
		breakers: breakers,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
		pypiBase: "https://pypi.org",
		repos:    repos,
	}
}

// Discover returns the cached or freshly probed documentation location
// for library. Negative outcomes are cached with equal priority so
// known-bad libraries stop costing network round trips.
func (p *Prober) Discover(ctx context.Context, library string) (domain.DiscoveryResult, error) {
	library = strings.ToLower(strings.TrimSpace(library))
	if library == "" {
		return domain.DiscoveryResult{}, fmt.Errorf("%w: empty library name", domain.ErrInvalidInput)
	}

	cacheKey := "discovery:" + library
	if entry, ok := p.store.Get(cacheKey); ok && !entry.Expired(p.ttl, p.now()) {
		var cached domain.DiscoveryResult
		if err := json.Unmarshal(entry.Data, &cached); err == nil {
			logger.Debug("discovery %s: cached outcome (found=%t)", library, cached.Found)
			return cached, nil
		}
	}

	result := p.probe(ctx, library)
	if raw, err := json.Marshal(result); err == nil {
		if err := p.store.Set(cacheKey, raw, "", ""); err != nil {
			logger.Warn("discovery %s: caching outcome failed: %v", library, err)
		}
	}
	return result, nil
}

func (p *Prober) probe(ctx context.Context, library string) domain.DiscoveryResult {
	logger.Section("Library Discovery")
	result := domain.DiscoveryResult{Library: library, CheckedAt: p.now()}

	for _, candidate := range p.candidates(ctx, library) {
		if p.validate(ctx, candidate) {
			result.Found = true
			result.InventoryURL = candidate
			result.BaseURL = baseOf(candidate)
			logger.Info("discovery %s: found inventory at %s", library, candidate)
			return result
		}
	}

	logger.Info("discovery %s: no usable documentation found", library)
	return result
}

// candidates assembles inventory URLs to try, most conventional first.
// Duplicates are dropped while preserving order.
func (p *Prober) candidates(ctx context.Context, library string) []string {
	var urls []string
	urls = append(urls,
		fmt.Sprintf("https://%s.readthedocs.io/en/stable/objects.inv", library),
		fmt.Sprintf("https://%s.readthedocs.io/en/latest/objects.inv", library),
	)

	for _, projectURL := range p.projectURLs(ctx, library) {
		if owner, repo, ok := githubProject(projectURL); ok && p.repos != nil {
			homepage, err := p.repos.Homepage(ctx, owner, repo)
			if err != nil {
				logger.Debug("discovery %s: github metadata probe failed: %v", library, err)
			} else if homepage != "" {
				urls = append(urls, joinInventory(homepage))
			}
			continue
		}
		urls = append(urls, joinInventory(projectURL))
	}

	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// pypiProject is the slice of the PyPI JSON API response we use.
type pypiProject struct {
	Info struct {
		HomePage    string            `json:"home_page"`
		DocsURL     string            `json:"docs_url"`
		ProjectURLs map[string]string `json:"project_urls"`
	} `json:"info"`
}

// projectURLs asks the package-metadata service for documentation and
// homepage URLs. Failures are logged and yield no candidates.
func (p *Prober) projectURLs(ctx context.Context, library string) []string {
	metaURL := fmt.Sprintf("%s/pypi/%s/json", p.pypiBase, url.PathEscape(library))

	var body []byte
	err := p.breakers.Get(hostOf(metaURL)).Execute(ctx, func(ctx context.Context) error {
		res, err := p.fetcher.Fetch(ctx, metaURL, driven.FetchOptions{MaxBytes: maxMetadataBytes})
		if err != nil {
			return err
		}
		body = res.Body
		return nil
	})
	if err != nil {
		logger.Debug("discovery %s: metadata lookup failed: %v", library, err)
		return nil
	}

	var project pypiProject
	if err := json.Unmarshal(body, &project); err != nil {
		logger.Debug("discovery %s: metadata is not valid JSON: %v", library, err)
		return nil
	}

	var urls []string
	if project.Info.DocsURL != "" {
		urls = append(urls, project.Info.DocsURL)
	}
	// Documentation-flavoured project URLs rank before the homepage.
	for key, u := range project.Info.ProjectURLs {
		if strings.Contains(strings.ToLower(key), "doc") && u != "" {
			urls = append(urls, u)
		}
	}
	for key, u := range project.Info.ProjectURLs {
		lower := strings.ToLower(key)
		if (lower == "homepage" || lower == "home" || lower == "source") && u != "" {
			urls = append(urls, u)
		}
	}
	if project.Info.HomePage != "" {
		urls = append(urls, project.Info.HomePage)
	}
	return urls
}

// validate fetches a bounded slice of candidate and applies the shared
// minimum-size and header checks, under the candidate host's breaker.
func (p *Prober) validate(ctx context.Context, candidate string) bool {
	host := hostOf(candidate)
	if host == "" {
		return false
	}

	var body []byte
	err := p.breakers.Get(host).Execute(ctx, func(ctx context.Context) error {
		res, err := p.fetcher.Fetch(ctx, candidate, driven.FetchOptions{MaxBytes: maxProbeBytes})
		if err != nil {
			return err
		}
		body = res.Body
		return nil
	})
	if err != nil {
		logger.Debug("discovery probe %s failed: %v", candidate, err)
		return false
	}

	if len(body) < inventory.MinPayloadSize {
		logger.Debug("discovery probe %s rejected: %d bytes is below plausible minimum", candidate, len(body))
		return false
	}
	if !inventory.LooksLikeInventory(body) {
		logger.Debug("discovery probe %s rejected: not an inventory", candidate)
		return false
	}
	return true
}

func joinInventory(docsURL string) string {
	return strings.TrimSuffix(docsURL, "/") + "/objects.inv"
}

func baseOf(inventoryURL string) string {
	if i := strings.LastIndexByte(inventoryURL, '/'); i >= 0 {
		return inventoryURL[:i+1]
	}
	return inventoryURL
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// githubProject extracts owner and repo from a GitHub project URL.
func githubProject(rawURL string) (owner, repo string, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.EqualFold(u.Host, "github.com") {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
