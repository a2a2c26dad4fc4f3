// Package inventory parses Sphinx object-inventory payloads
// (objects.inv) into per-library symbol indexes. A payload is a short
// plaintext header followed by a zlib-compressed block of one record
// per line: name, domain:role, priority, uri, dispname. Indexes are
// built once per fetch and read-only afterwards.
package inventory
