package domain

import "strings"

// pythonKeywords is the reserved-word set of the language. Keywords
// never appear in inventories, so they resolve offline.
var pythonKeywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {},
	"assert": {}, "async": {}, "await": {}, "break": {}, "class": {},
	"continue": {}, "def": {}, "del": {}, "elif": {}, "else": {},
	"except": {}, "finally": {}, "for": {}, "from": {}, "global": {},
	"if": {}, "import": {}, "in": {}, "is": {}, "lambda": {},
	"nonlocal": {}, "not": {}, "or": {}, "pass": {}, "raise": {},
	"return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// IsKeyword reports whether name is a Python reserved word.
func IsKeyword(name string) bool {
	_, ok := pythonKeywords[name]
	return ok
}

// KeywordEntry builds the documentation entry for a reserved word.
// Keywords share one reference-manual section, so no network is needed.
func KeywordEntry(name, version string) *InventoryEntry {
	if !IsKeyword(name) {
		return nil
	}
	if version == "" {
		version = DefaultPythonVersion
	}
	base := LibraryPython.BaseURL(version)
	return &InventoryEntry{
		Name:        name,
		Domain:      "std",
		Role:        RoleKeyword,
		URI:         base + "reference/lexical_analysis.html#keywords",
		Anchor:      "keywords",
		DisplayName: name,
	}
}

// builtinFunctions are documented on the functions page.
var builtinFunctions = map[string]struct{}{
	"abs": {}, "all": {}, "any": {}, "bin": {}, "callable": {},
	"chr": {}, "dir": {}, "divmod": {}, "enumerate": {}, "eval": {},
	"filter": {}, "format": {}, "getattr": {}, "hasattr": {},
	"hash": {}, "help": {}, "hex": {}, "id": {}, "input": {},
	"isinstance": {}, "issubclass": {}, "iter": {}, "len": {},
	"map": {}, "max": {}, "min": {}, "next": {}, "open": {},
	"ord": {}, "pow": {}, "print": {}, "range": {}, "repr": {},
	"reversed": {}, "round": {}, "setattr": {}, "sorted": {},
	"sum": {}, "type": {}, "vars": {}, "zip": {},
}

// builtinTypes are documented on the standard-types page.
var builtinTypes = map[string]struct{}{
	"bool": {}, "bytearray": {}, "bytes": {}, "complex": {},
	"dict": {}, "float": {}, "frozenset": {}, "int": {}, "list": {},
	"memoryview": {}, "object": {}, "set": {}, "slice": {},
	"str": {}, "tuple": {},
}

// builtinExceptions are documented on the exceptions page.
var builtinExceptions = map[string]struct{}{
	"ArithmeticError": {}, "AssertionError": {}, "AttributeError": {},
	"BaseException": {}, "Exception": {}, "FileNotFoundError": {},
	"ImportError": {}, "IndexError": {}, "KeyError": {},
	"KeyboardInterrupt": {}, "LookupError": {}, "MemoryError": {},
	"NameError": {}, "NotImplementedError": {}, "OSError": {},
	"OverflowError": {}, "RecursionError": {}, "RuntimeError": {},
	"StopIteration": {}, "SyntaxError": {}, "TypeError": {},
	"ValueError": {}, "ZeroDivisionError": {},
}

// SyntheticBuiltinEntry constructs a stdlib documentation entry for
// core builtins without consulting an inventory. It is the degraded
// last resort used when the stdlib inventory cannot be fetched, so
// hovering len() or ValueError still yields a URL offline. Anchor
// conventions follow docs.python.org page layout.
func SyntheticBuiltinEntry(q SymbolQuery) *InventoryEntry {
	base := LibraryPython.BaseURL(q.Version) + "library/"
	name := q.Name

	if _, ok := builtinExceptions[name]; ok {
		return syntheticEntry(name, RoleException, base+"exceptions.html#"+name)
	}
	if _, ok := builtinTypes[name]; ok {
		return syntheticEntry(name, RoleClass, base+"stdtypes.html#"+name)
	}
	if _, ok := builtinFunctions[name]; ok {
		return syntheticEntry(name, RoleFunction, base+"functions.html#"+name)
	}

	// Methods on builtin types ("list.append", "object.__init__") live
	// on the standard-types page under their dotted qualname.
	if root, _, found := strings.Cut(name, "."); found {
		_, isType := builtinTypes[root]
		if isType {
			return syntheticEntry(name, RoleMethod, base+"stdtypes.html#"+name)
		}
	}
	return nil
}

func syntheticEntry(name string, role SymbolRole, uri string) *InventoryEntry {
	anchor := ""
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		anchor = uri[i+1:]
	}
	return &InventoryEntry{
		Name:        name,
		Domain:      "py",
		Role:        role,
		URI:         uri,
		Anchor:      anchor,
		DisplayName: name,
	}
}
