package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

func entry(name string, role domain.SymbolRole) domain.InventoryEntry {
	return domain.InventoryEntry{
		Name:        name,
		Domain:      "py",
		Role:        role,
		Priority:    1,
		URI:         "https://example.org/" + name,
		DisplayName: name,
	}
}

func TestLookupExactPrefersRoleOrder(t *testing.T) {
	idx := newIndex("test", "1.0")
	idx.add(entry("open", domain.RoleData))
	idx.add(entry("open", domain.RoleFunction))

	got, ok := idx.Lookup("open")
	require.True(t, ok)
	assert.Equal(t, domain.RoleFunction, got.Role)
}

func TestLookupFallsBackToUnrankedRoles(t *testing.T) {
	idx := newIndex("test", "1.0")
	idx.add(entry("comparisons", domain.RoleLabel))

	got, ok := idx.Lookup("comparisons")
	require.True(t, ok)
	assert.Equal(t, domain.RoleLabel, got.Role)
}

func TestLookupCaseInsensitive(t *testing.T) {
	idx := newIndex("test", "1.0")
	idx.add(entry("ValueError", domain.RoleException))

	got, ok := idx.Lookup("valueerror")
	require.True(t, ok)
	assert.Equal(t, "ValueError", got.Name)
}

func TestLookupSuffix(t *testing.T) {
	tests := []struct {
		name    string
		entries []domain.InventoryEntry
		query   string
		want    string
	}{
		{
			name: "Shortest dotted path wins",
			entries: []domain.InventoryEntry{
				entry("numpy.ma.array", domain.RoleFunction),
				entry("numpy.array", domain.RoleFunction),
			},
			query: "array",
			want:  "numpy.array",
		},
		{
			name: "Role order breaks equal-length ties",
			entries: []domain.InventoryEntry{
				entry("aaa.update", domain.RoleData),
				entry("bbb.update", domain.RoleMethod),
			},
			query: "update",
			want:  "bbb.update",
		},
		{
			name: "Lexicographic order breaks remaining ties",
			entries: []domain.InventoryEntry{
				entry("zzz.get", domain.RoleMethod),
				entry("abc.get", domain.RoleMethod),
			},
			query: "get",
			want:  "abc.get",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := newIndex("test", "1.0")
			for _, e := range tt.entries {
				idx.add(e)
			}
			got, ok := idx.Lookup(tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestLookupSuffixRequiresDotBoundary(t *testing.T) {
	idx := newIndex("test", "1.0")
	idx.add(entry("notarray", domain.RoleFunction))

	_, ok := idx.Lookup("array")
	assert.False(t, ok)
}

func TestLookupMiss(t *testing.T) {
	idx := newIndex("test", "1.0")
	idx.add(entry("json.dumps", domain.RoleFunction))

	_, ok := idx.Lookup("pickle.loads")
	assert.False(t, ok)
}

func TestEntriesPreserveInsertionOrder(t *testing.T) {
	idx := newIndex("test", "1.0")
	idx.add(entry("b", domain.RoleFunction))
	idx.add(entry("a", domain.RoleFunction))

	entries := idx.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Name)
	assert.Equal(t, "a", entries[1].Name)
}
