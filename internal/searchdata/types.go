// Package searchdata reads, queries and regenerates Doxygen client-side
// search index artifacts (html/search/all_0.js and its sibling shards).
package searchdata

import (
	"html"
	"strings"
)

// MatchRecord is one documentation location a search key points at.
type MatchRecord struct {
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
	Flags       int    `json:"flags"`               // link target flag, 1 opens in the parent frame
	Scope       string `json:"scope,omitempty"`     // "Airplane", "AirplaneDomainTests", or empty
	Signature   string `json:"signature,omitempty"` // full member text, empty for page records
}

// IndexEntry is one search key with its match records. Records carry their
// own display name; consecutive records sharing a name form one group in the
// generated file.
type IndexEntry struct {
	Key     string        `json:"key"`
	Matches []MatchRecord `json:"matches"`
}

// Table is an immutable, ordered search index. It is safe for concurrent use.
type Table struct {
	entries []IndexEntry
	byKey   map[string]int
}

// Page returns the URL without its fragment.
func (m MatchRecord) Page() string {
	if i := strings.IndexByte(m.URL, '#'); i >= 0 {
		return m.URL[:i]
	}
	return m.URL
}

// Fragment returns the anchor id after '#', or "" for page records.
func (m MatchRecord) Fragment() string {
	if i := strings.IndexByte(m.URL, '#'); i >= 0 {
		return m.URL[i+1:]
	}
	return ""
}

// IsMember reports whether the record points at a member (constructor,
// method, variable) rather than a whole page. Member URLs carry an anchor.
func (m MatchRecord) IsMember() bool {
	return m.Fragment() != ""
}

// Text returns the third tuple element exactly as the generator wrote it.
func (m MatchRecord) Text() string {
	if m.Signature != "" {
		return m.Signature
	}
	return m.Scope
}

// PlainText is Text with HTML entities decoded ("&amp;" -> "&").
func (m MatchRecord) PlainText() string {
	return html.UnescapeString(m.Text())
}

// newMatchRecord splits the generator's label into scope and signature.
// "Airplane::Airplane(const Airplane *_airplane)" on a member URL has scope
// "Airplane" and keeps the whole text as signature. A page label such as
// "sim::Runway" or a bare "Airplane" is only a scope.
func newMatchRecord(name, url string, flags int, label string) MatchRecord {
	rec := MatchRecord{DisplayName: name, URL: url, Flags: flags}
	if !strings.Contains(url, "#") || !isSignature(label) {
		rec.Scope = label
		return rec
	}
	rec.Signature = label
	qualified := label
	if i := strings.IndexByte(qualified, '('); i >= 0 {
		qualified = qualified[:i]
	}
	if i := strings.LastIndex(qualified, "::"); i >= 0 {
		rec.Scope = strings.TrimSpace(qualified[:i])
	}
	return rec
}

// derivable reports whether newMatchRecord rebuilds m from its text, so
// that the generator's three element link carries it without loss.
func (m MatchRecord) derivable() bool {
	return newMatchRecord(m.DisplayName, m.URL, m.Flags, m.Text()) == m
}

// isSignature reports whether label reads like a rendered member rather than
// a plain scope name.
func isSignature(label string) bool {
	return strings.Contains(label, "(") || strings.Contains(label, "::")
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of every entry in file order.
func (t *Table) Entries() []IndexEntry {
	if t == nil {
		return []IndexEntry{}
	}
	out := make([]IndexEntry, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.clone()
	}
	return out
}

// Entry returns the entry stored under key. The key is normalized the same
// way Lookup normalizes prefixes.
func (t *Table) Entry(key string) (IndexEntry, bool) {
	if t == nil {
		return IndexEntry{}, false
	}
	i, ok := t.byKey[NormalizePrefix(key)]
	if !ok {
		return IndexEntry{}, false
	}
	return t.entries[i].clone(), true
}

// MatchCount returns the total number of match records.
func (t *Table) MatchCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, e := range t.entries {
		n += len(e.Matches)
	}
	return n
}

// Name returns the display name of the entry's first group ("Airplane").
func (e IndexEntry) Name() string {
	if len(e.Matches) == 0 {
		return ""
	}
	return e.Matches[0].DisplayName
}

func (e IndexEntry) clone() IndexEntry {
	e.Matches = append([]MatchRecord(nil), e.Matches...)
	return e
}

// NewTable builds a table from entries, enforcing every table invariant.
// The entries are copied; later changes to the argument do not leak in.
func NewTable(entries []IndexEntry) (*Table, error) {
	t := &Table{
		entries: make([]IndexEntry, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if err := t.add(e.clone()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(e IndexEntry) error {
	if err := e.validate(); err != nil {
		return err
	}
	if _, dup := t.byKey[e.Key]; dup {
		return malformed(-1, "duplicate key %q", e.Key)
	}
	t.byKey[e.Key] = len(t.entries)
	t.entries = append(t.entries, e)
	return nil
}

func (e IndexEntry) validate() error {
	switch {
	case e.Key == "":
		return malformed(-1, "empty key")
	case strings.ToLower(e.Key) != e.Key:
		return malformed(-1, "key %q is not lowercase", e.Key)
	case len(e.Matches) == 0:
		return malformed(-1, "key %q has no matches", e.Key)
	}
	for i, m := range e.Matches {
		if m.URL == "" {
			return malformed(-1, "key %q match %d has an empty url", e.Key, i)
		}
		if m.DisplayName == "" {
			return malformed(-1, "key %q match %d has no display name", e.Key, i)
		}
	}
	return nil
}
