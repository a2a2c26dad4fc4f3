package inventory

import (
	"bytes"
	"compress/zlib"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// buildInventory assembles a valid v2 payload from record lines. A
// padding comment keeps small fixtures above the plausible minimum
// size.
func buildInventory(t *testing.T, project, version string, records ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("# Sphinx inventory version 2\n")
	buf.WriteString("# Project: " + project + "\n")
	buf.WriteString("# Version: " + version + "\n")
	buf.WriteString("# " + strings.Repeat("x", MinPayloadSize) + "\n")
	buf.WriteString("# The remainder of this file is compressed using zlib.\n")

	zw := zlib.NewWriter(&buf)
	for _, r := range records {
		_, err := zw.Write([]byte(r + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseInventory(t *testing.T) {
	payload := buildInventory(t, "NumPy", "1.26",
		"numpy.array py:function 1 reference/generated/numpy.array.html#$ -",
		"numpy.ndarray py:class 1 reference/arrays.ndarray.html#numpy.ndarray -",
		"numpy py:module 0 index.html#module-numpy NumPy",
	)

	idx, err := Parse(payload, "https://numpy.org/doc/stable/")
	require.NoError(t, err)

	assert.Equal(t, "NumPy", idx.Project())
	assert.Equal(t, "1.26", idx.Version())
	assert.Equal(t, 3, idx.Len())

	entry, ok := idx.Get(domain.RoleFunction, "numpy.array")
	require.True(t, ok)
	// "$" expands to the symbol name; relative uris join the base.
	assert.Equal(t, "https://numpy.org/doc/stable/reference/generated/numpy.array.html#numpy.array", entry.URI)
	assert.Equal(t, "numpy.array", entry.Anchor)
	assert.Equal(t, "numpy.array", entry.DisplayName)
	assert.Equal(t, "py", entry.Domain)
	assert.Equal(t, 1, entry.Priority)

	mod, ok := idx.Get(domain.RoleModule, "numpy")
	require.True(t, ok)
	assert.Equal(t, "NumPy", mod.DisplayName)
	assert.Equal(t, "module-numpy", mod.Anchor)
}

func TestParseNamesWithSpaces(t *testing.T) {
	payload := buildInventory(t, "Python", "3.12",
		"Format Specification Mini-Language std:label -1 library/string.html#formatspec -",
	)

	idx, err := Parse(payload, "https://docs.python.org/3/")
	require.NoError(t, err)

	entry, ok := idx.Get(domain.RoleLabel, "Format Specification Mini-Language")
	require.True(t, ok)
	assert.Equal(t, -1, entry.Priority)
}

func TestParseSkipsBadRecords(t *testing.T) {
	payload := buildInventory(t, "Python", "3.12",
		"os.path py:module 0 library/os.path.html#module-os.path -",
		"this is not a valid record line at all",
		"",
		"json.dumps py:function 1 library/json.html#$ -",
	)

	idx, err := Parse(payload, "https://docs.python.org/3/")
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
}

func TestParseAbsoluteURIsKeptVerbatim(t *testing.T) {
	payload := buildInventory(t, "Flask", "3.0",
		"flask.Flask py:class 1 https://flask.palletsprojects.com/api/#flask.Flask -",
	)

	idx, err := Parse(payload, "https://example.org/ignored/")
	require.NoError(t, err)

	entry, ok := idx.Get(domain.RoleClass, "flask.Flask")
	require.True(t, ok)
	assert.Equal(t, "https://flask.palletsprojects.com/api/#flask.Flask", entry.URI)
}

func TestParseRejectsMalformed(t *testing.T) {
	valid := buildInventory(t, "Python", "3.12",
		"print py:function 1 library/functions.html#$ -")

	corruptBody := append([]byte{}, valid[:len(valid)-64]...)
	corruptBody = append(corruptBody, bytes.Repeat([]byte{0xff}, 64)...)

	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "Too small", payload: []byte("# Sphinx inventory version 2\n")},
		{name: "Missing header signature", payload: bytes.Repeat([]byte("x"), 2*MinPayloadSize)},
		{name: "Corrupt compressed body", payload: corruptBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.payload, "https://docs.python.org/3/")
			assert.ErrorIs(t, err, domain.ErrMalformedInventory)
		})
	}
}

func TestLooksLikeInventory(t *testing.T) {
	assert.True(t, LooksLikeInventory([]byte("# Sphinx inventory version 2\n# Project: x\n")))
	assert.False(t, LooksLikeInventory([]byte("<!DOCTYPE html><html>404</html>")))
	assert.False(t, LooksLikeInventory(nil))
}
