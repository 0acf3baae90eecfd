package searchdata

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// SectionsFile declares which index categories a search directory holds.
const SectionsFile = "searchdata.js"

// Section is one index category ("all", "classes", "functions"...).
type Section struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Initials string `json:"initials"` // one shard per initial, in shard order
}

// ShardNames returns the shard file names the section's initials imply.
func (s Section) ShardNames() []string {
	names := make([]string, 0, len(s.Initials))
	for i := range []rune(s.Initials) {
		names = append(names, ShardName(s.Name, i))
	}
	return names
}

// FindSection returns the section called name.
func FindSection(sections []Section, name string) (Section, bool) {
	for _, s := range sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// LoadSectionsFile reads a searchdata.js file.
func LoadSectionsFile(path string) ([]Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sections: %w", err)
	}
	sections, err := ParseSections(data)
	return sections, withSource(err, path)
}

// LoadSectionsFS reads searchdata.js from the root of fsys.
func LoadSectionsFS(fsys fs.FS) ([]Section, error) {
	data, err := fs.ReadFile(fsys, SectionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read sections: %w", err)
	}
	sections, err := ParseSections(data)
	return sections, withSource(err, SectionsFile)
}

// ParseSections decodes the three object literals of searchdata.js:
//
//	var indexSectionsWithContent = { 0: "abc", ... };
//	var indexSectionNames = { 0: "all", ... };
//	var indexSectionLabels = { 0: "All", ... };
//
// Other declarations are skipped. Sections come back ordered by id.
func ParseSections(data []byte) ([]Section, error) {
	p := &parser{data: data}
	vars := make(map[string]map[int]string)
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		if !p.consumeWord("var") {
			return nil, p.fail(p.pos, "expected var declaration")
		}
		p.skipSpace()
		start := p.pos
		name := p.ident()
		if name == "" {
			return nil, p.fail(start, "expected identifier after var")
		}
		p.skipSpace()
		if !p.consume('=') {
			return nil, p.fail(p.pos, "expected '=' after %s", name)
		}
		p.skipSpace()
		obj, err := p.object()
		if err != nil {
			return nil, err
		}
		vars[name] = obj
		p.skipSpace()
		p.consume(';')
	}

	names, ok := vars["indexSectionNames"]
	if !ok {
		return nil, p.fail(-1, "indexSectionNames is not declared")
	}
	sections := make([]Section, 0, len(names))
	for id, name := range names {
		sections = append(sections, Section{
			ID:       id,
			Name:     name,
			Label:    vars["indexSectionLabels"][id],
			Initials: vars["indexSectionsWithContent"][id],
		})
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })
	return sections, nil
}

// object parses { <int>: <string>, ... }.
func (p *parser) object() (map[int]string, error) {
	if !p.consume('{') {
		return nil, p.fail(p.pos, "expected '{'")
	}
	out := make(map[int]string)
	for {
		p.skipSpace()
		if p.consume('}') {
			return out, nil
		}
		if p.pos >= len(p.data) {
			return nil, p.fail(p.pos, "unterminated object")
		}
		c := p.data[p.pos]
		if c < '0' || c > '9' {
			return nil, p.fail(p.pos, "expected numeric key, found %q", c)
		}
		key, err := p.number()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, p.fail(p.pos, "expected ':' after key %d", *key.num)
		}
		p.skipSpace()
		if p.pos >= len(p.data) || (p.data[p.pos] != '"' && p.data[p.pos] != '\'') {
			return nil, p.fail(p.pos, "expected string value for key %d", *key.num)
		}
		val, err := p.quoted()
		if err != nil {
			return nil, err
		}
		out[*key.num] = *val.str
		p.skipSpace()
		p.consume(',')
	}
}
