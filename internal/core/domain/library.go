package domain

import (
	"strings"
	"time"
)

// DefaultPythonVersion is assumed when a query carries no runtime
// version. Matches the oldest branch docs.python.org still serves
// objects.inv for by default.
const DefaultPythonVersion = "3"

// KnownLibrary identifies a library with a preconfigured documentation
// location. Unknown libraries go through the string-keyed discovery
// path instead.
type KnownLibrary string

// Libraries with preconfigured inventories.
const (
	LibraryPython     KnownLibrary = "python"
	LibraryNumpy      KnownLibrary = "numpy"
	LibraryPandas     KnownLibrary = "pandas"
	LibraryScipy      KnownLibrary = "scipy"
	LibraryMatplotlib KnownLibrary = "matplotlib"
	LibraryRequests   KnownLibrary = "requests"
	LibraryFlask      KnownLibrary = "flask"
	LibrarySQLAlchemy KnownLibrary = "sqlalchemy"
	LibraryPytest     KnownLibrary = "pytest"
)

// IsValid returns true if the library is preconfigured.
func (l KnownLibrary) IsValid() bool {
	switch l {
	case LibraryPython, LibraryNumpy, LibraryPandas, LibraryScipy,
		LibraryMatplotlib, LibraryRequests, LibraryFlask,
		LibrarySQLAlchemy, LibraryPytest:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l KnownLibrary) String() string {
	return string(l)
}

// BaseURL returns the documentation root for the library. Only the
// standard library is branched by Python version.
func (l KnownLibrary) BaseURL(version string) string {
	switch l {
	case LibraryPython:
		if version == "" {
			version = DefaultPythonVersion
		}
		return "https://docs.python.org/" + version + "/"
	case LibraryNumpy:
		return "https://numpy.org/doc/stable/"
	case LibraryPandas:
		return "https://pandas.pydata.org/docs/"
	case LibraryScipy:
		return "https://docs.scipy.org/doc/scipy/"
	case LibraryMatplotlib:
		return "https://matplotlib.org/stable/"
	case LibraryRequests:
		return "https://requests.readthedocs.io/en/latest/"
	case LibraryFlask:
		return "https://flask.palletsprojects.com/en/stable/"
	case LibrarySQLAlchemy:
		return "https://docs.sqlalchemy.org/en/20/"
	case LibraryPytest:
		return "https://docs.pytest.org/en/stable/"
	default:
		return ""
	}
}

// InventoryURL returns the objects.inv location for the library.
func (l KnownLibrary) InventoryURL(version string) string {
	base := l.BaseURL(version)
	if base == "" {
		return ""
	}
	return base + "objects.inv"
}

// KnownLibraries returns all preconfigured libraries.
func KnownLibraries() []KnownLibrary {
	return []KnownLibrary{
		LibraryPython,
		LibraryNumpy,
		LibraryPandas,
		LibraryScipy,
		LibraryMatplotlib,
		LibraryRequests,
		LibraryFlask,
		LibrarySQLAlchemy,
		LibraryPytest,
	}
}

// LookupKnown maps a library name to its preconfigured entry.
func LookupKnown(name string) (KnownLibrary, bool) {
	l := KnownLibrary(strings.ToLower(name))
	return l, l.IsValid()
}

// DiscoveryResult is the cached outcome of probing an unconfigured
// library for documentation. Both polarities are cached so known-bad
// libraries do not re-trigger probing.
type DiscoveryResult struct {
	// Library is the probed library name.
	Library string `json:"library"`

	// Found reports whether a usable inventory was located.
	Found bool `json:"found"`

	// InventoryURL is the validated objects.inv location. Empty when
	// Found is false.
	InventoryURL string `json:"inventory_url,omitempty"`

	// BaseURL is the documentation root the inventory is relative to.
	BaseURL string `json:"base_url,omitempty"`

	// CheckedAt records when the probe ran.
	CheckedAt time.Time `json:"checked_at"`
}
