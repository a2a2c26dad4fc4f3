package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalized(t *testing.T) {
	tests := []struct {
		name  string
		query SymbolQuery
		want  SymbolQuery
	}{
		{
			name:  "Defaults applied",
			query: SymbolQuery{Name: "json.dumps"},
			want:  SymbolQuery{Name: "json.dumps", Version: "3"},
		},
		{
			name:  "Whitespace trimmed",
			query: SymbolQuery{Name: "  open  ", Version: "3.12"},
			want:  SymbolQuery{Name: "open", Version: "3.12"},
		},
		{
			name:  "Library lowercased",
			query: SymbolQuery{Name: "array", Version: "3", Library: "NumPy"},
			want:  SymbolQuery{Name: "array", Version: "3", Library: "numpy"},
		},
		{
			name:  "Builtins prefix stripped",
			query: SymbolQuery{Name: "builtins.list", Version: "3"},
			want:  SymbolQuery{Name: "list", Version: "3"},
		},
		{
			name:  "Bare dunder qualified as object method",
			query: SymbolQuery{Name: "__init__", Version: "3"},
			want:  SymbolQuery{Name: "object.__init__", Version: "3"},
		},
		{
			name:  "Dotted dunder left alone",
			query: SymbolQuery{Name: "list.__len__", Version: "3"},
			want:  SymbolQuery{Name: "list.__len__", Version: "3"},
		},
		{
			name:  "Dunder with library left alone",
			query: SymbolQuery{Name: "__init__", Version: "3", Library: "attrs"},
			want:  SymbolQuery{Name: "__init__", Version: "3", Library: "attrs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Normalized()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizedRejectsEmptyName(t *testing.T) {
	_, err := SymbolQuery{Name: "   "}.Normalized()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCacheKeyPartitions(t *testing.T) {
	a := SymbolQuery{Name: "array", Version: "3", Library: "numpy"}
	b := SymbolQuery{Name: "array", Version: "3"}
	c := SymbolQuery{Name: "array", Version: "3.12"}

	assert.Equal(t, "numpy@3:array", a.CacheKey())
	assert.Equal(t, "python@3:array", b.CacheKey())
	assert.NotEqual(t, b.CacheKey(), c.CacheKey())
}

func TestIsDunder(t *testing.T) {
	assert.True(t, IsDunder("__init__"))
	assert.True(t, IsDunder("__getattr__"))
	assert.False(t, IsDunder("____"))
	assert.False(t, IsDunder("__init"))
	assert.False(t, IsDunder("list.__len__"))
	assert.False(t, IsDunder("init"))
}
