package inventory

import (
	"strings"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// rolePriority orders roles for ambiguous name lookups. Roles not
// listed rank after all of these, in insertion order.
var rolePriority = []domain.SymbolRole{
	domain.RoleFunction,
	domain.RoleClass,
	domain.RoleMethod,
	domain.RoleException,
	domain.RoleAttribute,
	domain.RoleData,
	domain.RoleModule,
}

// Index is one library's symbol table: (role:name) → entry. Owned by a
// single (library, version) pair, built once, read-only afterwards.
type Index struct {
	project string
	version string

	entries map[string]domain.InventoryEntry
	// order preserves insertion sequence for deterministic scans.
	order []string
}

func newIndex(project, version string) *Index {
	return &Index{
		project: project,
		version: version,
		entries: make(map[string]domain.InventoryEntry),
	}
}

func (x *Index) add(e domain.InventoryEntry) {
	k := key(e.Role, e.Name)
	if _, exists := x.entries[k]; !exists {
		x.order = append(x.order, k)
	}
	x.entries[k] = e
}

func key(role domain.SymbolRole, name string) string {
	return string(role) + ":" + name
}

// Project returns the inventory's declared project name.
func (x *Index) Project() string { return x.project }

// Version returns the inventory's declared project version.
func (x *Index) Version() string { return x.version }

// Len returns the number of indexed symbols.
func (x *Index) Len() int { return len(x.entries) }

// Get returns the entry for an exact (role, name) pair.
func (x *Index) Get(role domain.SymbolRole, name string) (domain.InventoryEntry, bool) {
	e, ok := x.entries[key(role, name)]
	return e, ok
}

// Entries returns a copy of every indexed entry in insertion order.
func (x *Index) Entries() []domain.InventoryEntry {
	out := make([]domain.InventoryEntry, 0, len(x.order))
	for _, k := range x.order {
		out = append(out, x.entries[k])
	}
	return out
}

// Lookup resolves a symbol name with the fallback chain: exact
// role:name match in role-priority order, then case-insensitive match,
// then longest-suffix match against dotted symbol paths ("array"
// matching "numpy.array").
func (x *Index) Lookup(name string) (*domain.InventoryEntry, bool) {
	if e, ok := x.exact(name); ok {
		return e, true
	}
	if e, ok := x.caseInsensitive(name); ok {
		return e, true
	}
	if e, ok := x.suffix(name); ok {
		return e, true
	}
	return nil, false
}

func (x *Index) exact(name string) (*domain.InventoryEntry, bool) {
	for _, role := range rolePriority {
		if e, ok := x.entries[key(role, name)]; ok {
			return &e, true
		}
	}
	// Roles outside the priority table (c:function, std:label, ...).
	for _, k := range x.order {
		e := x.entries[k]
		if e.Name == name {
			return &e, true
		}
	}
	return nil, false
}

func (x *Index) caseInsensitive(name string) (*domain.InventoryEntry, bool) {
	lower := strings.ToLower(name)
	var best *domain.InventoryEntry
	bestRank := len(rolePriority) + 1
	for _, k := range x.order {
		e := x.entries[k]
		if strings.ToLower(e.Name) != lower {
			continue
		}
		if r := roleRank(e.Role); r < bestRank {
			entry := e
			best = &entry
			bestRank = r
		}
	}
	return best, best != nil
}

// suffix finds entries whose dotted path ends in the queried name and
// prefers the shortest (least additionally qualified) candidate;
// role-priority then lexicographic order break remaining ties.
func (x *Index) suffix(name string) (*domain.InventoryEntry, bool) {
	want := "." + name
	var best *domain.InventoryEntry
	for _, k := range x.order {
		e := x.entries[k]
		if !strings.HasSuffix(e.Name, want) {
			continue
		}
		if best == nil || betterSuffixMatch(e, *best) {
			entry := e
			best = &entry
		}
	}
	return best, best != nil
}

func betterSuffixMatch(candidate, current domain.InventoryEntry) bool {
	if len(candidate.Name) != len(current.Name) {
		return len(candidate.Name) < len(current.Name)
	}
	cr, br := roleRank(candidate.Role), roleRank(current.Role)
	if cr != br {
		return cr < br
	}
	return candidate.Name < current.Name
}

func roleRank(role domain.SymbolRole) int {
	for i, r := range rolePriority {
		if r == role {
			return i
		}
	}
	return len(rolePriority)
}
