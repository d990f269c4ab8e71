// Package suitefile parses the two source lists consumed by denygen: a
// master list naming every known identifier and a deny list selecting the
// subset to test for.
//
// The format is line-oriented. Blank lines are skipped and '#' starts a
// comment running to the end of the line. A record is an identifier in
// IANA two-byte notation ("0x00,0x2F"), plain hex ("0x002F") or decimal,
// optionally followed by a name:
//
//	0x00,0x2F  TLS_RSA_WITH_AES_128_CBC_SHA
//	0xC02B     TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256
//
// Deny-list records may instead be a bare name, resolved against the
// master list.
package suitefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/denyset/core"
)

// Record is one entry of a suite list. ID is meaningful only when HasID is
// true; a deny-list entry referencing a suite by name has HasID false.
type Record struct {
	Name  string
	ID    core.ID
	HasID bool
}

// ParseError reports a malformed line, 1-based.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// UnknownEntryError reports a deny-list entry with no master-list
// counterpart. Mirrors the strict validation of the source lists: a deny
// list must be a subset of the master list.
type UnknownEntryError struct {
	Name  string
	ID    core.ID
	HasID bool
}

func (e *UnknownEntryError) Error() string {
	if e.HasID {
		return fmt.Sprintf("deny-list value %#x is not in the master list", uint32(e.ID))
	}
	return fmt.Sprintf("deny-list name %q is not in the master list", e.Name)
}

// Parse reads records from r.
func Parse(r io.Reader) ([]Record, error) {
	var records []Record

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 2 {
			return nil, &ParseError{Line: line, Text: text, Reason: "expected identifier and optional name"}
		}

		rec := Record{}
		id, ok, err := parseID(fields[0])
		switch {
		case err != nil:
			return nil, &ParseError{Line: line, Text: text, Reason: err.Error()}
		case ok:
			rec.ID, rec.HasID = id, true
			if len(fields) == 2 {
				rec.Name = fields[1]
			}
		default:
			// Bare name; only meaningful in a deny list.
			if len(fields) == 2 {
				return nil, &ParseError{Line: line, Text: text, Reason: "expected identifier before name"}
			}
			rec.Name = fields[0]
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Load reads records from the named file.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// parseID recognizes "0xHH,0xHH", "0x...", and decimal tokens. The bool
// result distinguishes "not an identifier token" from a syntax error in a
// token that clearly tries to be one.
func parseID(tok string) (core.ID, bool, error) {
	if hi, lo, found := strings.Cut(tok, ","); found {
		h, err1 := parseByte(hi)
		l, err2 := parseByte(lo)
		if err1 != nil || err2 != nil {
			return 0, false, fmt.Errorf("malformed two-byte identifier %q", tok)
		}
		return core.ID(h)<<8 | core.ID(l), true, nil
	}
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		n, err := strconv.ParseUint(tok[2:], 16, 32)
		if err != nil {
			return 0, false, fmt.Errorf("malformed hex identifier %q", tok)
		}
		return core.ID(n), true, nil
	}
	if tok[0] >= '0' && tok[0] <= '9' {
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return 0, false, fmt.Errorf("malformed decimal identifier %q", tok)
		}
		return core.ID(n), true, nil
	}
	return 0, false, nil
}

func parseByte(tok string) (uint8, error) {
	tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	n, err := strconv.ParseUint(tok, 16, 8)
	return uint8(n), err
}

// Resolve maps the deny list onto the master list and returns the sorted
// distinct identifiers to test for. Every master record must carry an
// identifier, and every deny record must match a master entry by value or
// by name; the first violation aborts with an *UnknownEntryError or
// *ParseError-free plain error for the master side.
func Resolve(master, deny []Record) ([]core.ID, error) {
	known := make(map[core.ID]struct{}, len(master))
	byName := make(map[string]core.ID, len(master))
	for _, m := range master {
		if !m.HasID {
			return nil, fmt.Errorf("master-list entry %q has no identifier", m.Name)
		}
		known[m.ID] = struct{}{}
		if m.Name != "" {
			byName[m.Name] = m.ID
		}
	}

	ids := make([]core.ID, 0, len(deny))
	for _, d := range deny {
		if d.HasID {
			if _, ok := known[d.ID]; !ok {
				return nil, &UnknownEntryError{ID: d.ID, HasID: true}
			}
			ids = append(ids, d.ID)
			continue
		}
		id, ok := byName[d.Name]
		if !ok {
			return nil, &UnknownEntryError{Name: d.Name}
		}
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return slices.Compact(ids), nil
}
