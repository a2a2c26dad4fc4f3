package domain

import (
	"fmt"
	"strings"
)

// SymbolQuery is an immutable request to resolve a Python symbol to its
// documentation location.
type SymbolQuery struct {
	// Name is the symbol being looked up, e.g. "json.dumps" or "array".
	Name string

	// Version is the Python runtime version ("3.11"). It partitions
	// caches and selects the documentation branch for the stdlib.
	Version string

	// Library optionally names the owning library ("numpy"). Empty
	// means search the standard library first.
	Library string
}

// Validate checks that the query is well formed.
func (q SymbolQuery) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return fmt.Errorf("%w: empty symbol name", ErrInvalidInput)
	}
	return nil
}

// Normalized returns a copy of the query with canonical spelling:
// surrounding whitespace removed, the redundant "builtins." qualifier
// stripped, and bare dunder names qualified as methods of object so
// they hit the stdlib inventory (object.__init__ etc.).
func (q SymbolQuery) Normalized() (SymbolQuery, error) {
	if err := q.Validate(); err != nil {
		return q, err
	}
	q.Name = strings.TrimSpace(q.Name)
	q.Library = strings.TrimSpace(strings.ToLower(q.Library))
	if q.Version == "" {
		q.Version = DefaultPythonVersion
	}

	// "builtins.list" is addressed as plain "list" in documentation.
	if rest, ok := strings.CutPrefix(q.Name, "builtins."); ok && rest != "" {
		q.Name = rest
	}

	if q.Library == "" && IsDunder(q.Name) {
		q.Name = "object." + q.Name
	}
	return q, nil
}

// CacheKey returns the memory-cache key for a resolved result,
// partitioned by library and runtime version.
func (q SymbolQuery) CacheKey() string {
	lib := q.Library
	if lib == "" {
		lib = string(LibraryPython)
	}
	return lib + "@" + q.Version + ":" + q.Name
}

// String renders the query for logs.
func (q SymbolQuery) String() string {
	if q.Library != "" {
		return fmt.Sprintf("%s (library=%s, python=%s)", q.Name, q.Library, q.Version)
	}
	return fmt.Sprintf("%s (python=%s)", q.Name, q.Version)
}

// IsDunder reports whether name follows the special-method naming
// convention, e.g. "__init__". Dotted paths like "list.__len__" do not
// count; only the bare form needs qualification.
func IsDunder(name string) bool {
	return len(name) > 4 &&
		strings.HasPrefix(name, "__") &&
		strings.HasSuffix(name, "__") &&
		!strings.Contains(name, ".")
}
