package searchdata

import "strings"

// Lookup returns every entry whose key starts with prefix, in file order.
// Matching is case-insensitive; an empty prefix returns the whole table and
// no match returns an empty slice.
func (t *Table) Lookup(prefix string) []IndexEntry {
	out := []IndexEntry{}
	if t == nil {
		return out
	}
	norm := NormalizePrefix(prefix)
	for _, e := range t.entries {
		if strings.HasPrefix(e.Key, norm) {
			out = append(out, e.clone())
		}
	}
	return out
}

// Matches returns the match records of Lookup(prefix), flattened in order.
func (t *Table) Matches(prefix string) []MatchRecord {
	out := []MatchRecord{}
	for _, e := range t.Lookup(prefix) {
		out = append(out, e.Matches...)
	}
	return out
}

// Keys returns every key in file order.
func (t *Table) Keys() []string {
	if t == nil {
		return []string{}
	}
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.Key
	}
	return keys
}
