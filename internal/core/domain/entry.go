package domain

import "strings"

// SymbolRole categorises what kind of object an inventory entry
// documents. Values mirror the Sphinx Python-domain role names.
type SymbolRole string

// Known symbol roles.
const (
	RoleFunction  SymbolRole = "function"
	RoleClass     SymbolRole = "class"
	RoleMethod    SymbolRole = "method"
	RoleException SymbolRole = "exception"
	RoleAttribute SymbolRole = "attribute"
	RoleModule    SymbolRole = "module"
	RoleData      SymbolRole = "data"
	RoleKeyword   SymbolRole = "keyword"
	RoleLabel     SymbolRole = "label"
)

// String returns the string representation.
func (r SymbolRole) String() string {
	return string(r)
}

// InventoryEntry is a resolved documentation location. Immutable once
// produced; safe to cache and share across goroutines.
type InventoryEntry struct {
	// Name is the canonical symbol name, which may differ from the
	// query after normalization ("object.__init__" for "__init__").
	Name string `json:"name"`

	// Domain is the Sphinx domain the entry belongs to, usually "py".
	Domain string `json:"domain"`

	// Role categorises the object: function, class, method, keyword...
	Role SymbolRole `json:"role"`

	// Priority is the inventory's search priority hint (-1 hides the
	// entry from search; lower non-negative values rank higher).
	Priority int `json:"priority"`

	// URI is the absolute documentation URL, anchor included.
	URI string `json:"uri"`

	// Anchor is the fragment identifier within the page. May be empty.
	Anchor string `json:"anchor"`

	// DisplayName is the human-readable name. Defaults to Name.
	DisplayName string `json:"display_name"`
}

// Page returns the URI without its anchor fragment.
func (e InventoryEntry) Page() string {
	if i := strings.IndexByte(e.URI, '#'); i >= 0 {
		return e.URI[:i]
	}
	return e.URI
}

// Title returns the name to show a user.
func (e InventoryEntry) Title() string {
	if e.DisplayName != "" && e.DisplayName != "-" {
		return e.DisplayName
	}
	return e.Name
}
