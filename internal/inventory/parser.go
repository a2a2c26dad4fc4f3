package inventory

import (
	"bufio"
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/pyref-cli/internal/core/domain"
)

// MinPayloadSize is the smallest byte count a plausible inventory can
// have. Smaller payloads are almost always an error page or a
// truncated download, so both the parser and the discovery validator
// reject them outright.
const MinPayloadSize = 1024

// headerSignature is the required first line of a v2 inventory.
const headerSignature = "# Sphinx inventory version 2"

// maxDecompressed bounds the inflated body so a hostile payload cannot
// exhaust memory.
const maxDecompressed = 64 << 20

// recordPattern splits one inventory line into name, domain, role,
// priority, uri and dispname. The name is matched lazily because it
// may contain spaces.
var recordPattern = regexp.MustCompile(`^(.+?)\s+([^\s:]+):(\S+)\s+(-?\d+)\s+(\S+)\s*(.*)$`)

// LooksLikeInventory reports whether data begins with the inventory
// header signature. Discovery uses this to validate probe candidates
// without a full parse.
func LooksLikeInventory(data []byte) bool {
	return bytes.HasPrefix(data, []byte(headerSignature))
}

// Parse decodes a raw objects.inv payload into an Index. Relative
// record URIs are resolved against baseURL. Malformed headers,
// undersized payloads and corrupt compression all return
// domain.ErrMalformedInventory wrapped with detail.
func Parse(payload []byte, baseURL string) (*Index, error) {
	if len(payload) < MinPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, below plausible minimum %d",
			domain.ErrMalformedInventory, len(payload), MinPayloadSize)
	}
	if !LooksLikeInventory(payload) {
		return nil, fmt.Errorf("%w: missing header signature", domain.ErrMalformedInventory)
	}

	header := bufio.NewReader(bytes.NewReader(payload))
	var project, version string
	sawZlibNotice := false
	for {
		line, err := header.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header ends before compressed body", domain.ErrMalformedInventory)
		}
		line = strings.TrimRight(line, "\r\n")
		switch {
		case strings.HasPrefix(line, "# Project:"):
			project = strings.TrimSpace(strings.TrimPrefix(line, "# Project:"))
		case strings.HasPrefix(line, "# Version:"):
			version = strings.TrimSpace(strings.TrimPrefix(line, "# Version:"))
		case strings.Contains(line, "zlib"):
			sawZlibNotice = true
		case strings.HasPrefix(line, "#"):
			// Signature line or unknown comment; skip.
		}
		if sawZlibNotice {
			break
		}
	}

	zr, err := zlib.NewReader(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInventory, err)
	}
	defer zr.Close()

	idx := newIndex(project, version)
	scanner := bufio.NewScanner(io.LimitReader(zr, maxDecompressed))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}
		entry, ok := parseRecord(line, baseURL)
		if !ok {
			// One bad record does not invalidate the inventory.
			continue
		}
		idx.add(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading compressed body: %v", domain.ErrMalformedInventory, err)
	}
	return idx, nil
}

// parseRecord decodes one "name domain:role priority uri dispname"
// line, applying the two abbreviation conventions: a uri ending in "$"
// stands for the symbol's own name, and a dispname of "-" means "same
// as name".
func parseRecord(line, baseURL string) (domain.InventoryEntry, bool) {
	m := recordPattern.FindStringSubmatch(line)
	if m == nil {
		return domain.InventoryEntry{}, false
	}
	name, dom, role, prio, uri, disp := m[1], m[2], m[3], m[4], m[5], m[6]

	priority, err := strconv.Atoi(prio)
	if err != nil {
		return domain.InventoryEntry{}, false
	}

	if strings.HasSuffix(uri, "$") {
		uri = uri[:len(uri)-1] + name
	}
	uri = resolveURI(baseURL, uri)

	anchor := ""
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		anchor = uri[i+1:]
	}

	if disp == "" || disp == "-" {
		disp = name
	}

	return domain.InventoryEntry{
		Name:        name,
		Domain:      dom,
		Role:        domain.SymbolRole(role),
		Priority:    priority,
		URI:         uri,
		Anchor:      anchor,
		DisplayName: disp,
	}, true
}

// resolveURI joins a record uri with the documentation base unless the
// record already carries a scheme.
func resolveURI(baseURL, uri string) string {
	if strings.Contains(uri, "://") {
		return uri
	}
	if baseURL == "" {
		return uri
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(uri, "/")
}
