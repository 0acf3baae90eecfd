package searchdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"
)

// VarName is the global the generator assigns the index array to.
const VarName = "searchData"

// value is a node of the parsed array literal: a string, an int or a list.
type value struct {
	offset int
	str    *string
	num    *int
	list   []value
}

func (v value) kind() string {
	switch {
	case v.str != nil:
		return "string"
	case v.num != nil:
		return "number"
	default:
		return "array"
	}
}

// Load reads one search index artifact. Any defect makes the whole load fail
// with an error matching ErrMalformed; there is no partial result.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read search index: %w", err)
	}
	return Parse(data)
}

// LoadFile reads the artifact at path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read search index: %w", err)
	}
	t, err := Parse(data)
	return t, withSource(err, path)
}

// Parse decodes the artifact held in data.
func Parse(data []byte) (*Table, error) {
	p := &parser{data: data}
	root, err := p.document(VarName)
	if err != nil {
		return nil, err
	}
	t, err := p.table(root)
	if err != nil {
		return nil, err
	}
	return t, nil
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) fail(offset int, format string, args ...interface{}) error {
	if offset < 0 {
		return malformed(offset, format, args...)
	}
	line := 1 + bytes.Count(p.data[:min(offset, len(p.data))], []byte{'\n'})
	return &SyntaxError{Offset: offset, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// document parses `var <name>=<value>;` (the `var` declaration is optional so
// that bare array literals load too).
func (p *parser) document(name string) (value, error) {
	p.skipSpace()
	if p.consumeWord("var") {
		p.skipSpace()
		start := p.pos
		ident := p.ident()
		if ident == "" {
			return value{}, p.fail(start, "expected identifier after var")
		}
		if ident != name {
			return value{}, p.fail(start, "expected %s, found %s", name, ident)
		}
		p.skipSpace()
		if !p.consume('=') {
			return value{}, p.fail(p.pos, "expected '=' after %s", name)
		}
	}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return value{}, err
	}
	p.skipSpace()
	p.consume(';')
	p.skipSpace()
	if p.pos != len(p.data) {
		return value{}, p.fail(p.pos, "unexpected trailing content")
	}
	return v, nil
}

func (p *parser) value() (value, error) {
	if p.pos >= len(p.data) {
		return value{}, p.fail(p.pos, "unexpected end of input")
	}
	switch c := p.data[p.pos]; {
	case c == '[':
		return p.array()
	case c == '\'' || c == '"':
		return p.quoted()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return value{}, p.fail(p.pos, "unexpected character %q", c)
	}
}

func (p *parser) array() (value, error) {
	v := value{offset: p.pos, list: []value{}}
	p.pos++ // '['
	for {
		p.skipSpace()
		if p.consume(']') {
			return v, nil
		}
		elem, err := p.value()
		if err != nil {
			return value{}, err
		}
		v.list = append(v.list, elem)
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return v, nil
		}
		if p.pos >= len(p.data) {
			return value{}, p.fail(p.pos, "unterminated array starting at offset %d", v.offset)
		}
		return value{}, p.fail(p.pos, "expected ',' or ']', found %q", p.data[p.pos])
	}
}

func (p *parser) quoted() (value, error) {
	start := p.pos
	quote := p.data[p.pos]
	p.pos++
	var buf []byte
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case c == quote:
			p.pos++
			s := string(buf)
			return value{offset: start, str: &s}, nil
		case c == '\n':
			return value{}, p.fail(p.pos, "newline in string literal")
		case c == '\\':
			r, n, err := p.escape()
			if err != nil {
				return value{}, err
			}
			buf = utf8.AppendRune(buf, r)
			p.pos += n
		default:
			buf = append(buf, c)
			p.pos++
		}
	}
	return value{}, p.fail(start, "unterminated string literal")
}

// escape decodes the escape sequence at p.pos and returns its rune and length.
func (p *parser) escape() (rune, int, error) {
	if p.pos+1 >= len(p.data) {
		return 0, 0, p.fail(p.pos, "unterminated escape sequence")
	}
	switch c := p.data[p.pos+1]; c {
	case 'n':
		return '\n', 2, nil
	case 't':
		return '\t', 2, nil
	case 'r':
		return '\r', 2, nil
	case 'b':
		return '\b', 2, nil
	case 'f':
		return '\f', 2, nil
	case 'v':
		return '\v', 2, nil
	case '0':
		return 0, 2, nil
	case 'x':
		return p.hexEscape(2)
	case 'u':
		return p.hexEscape(4)
	default:
		// \\, \', \" and any other escaped character stand for themselves
		return rune(c), 2, nil
	}
}

func (p *parser) hexEscape(digits int) (rune, int, error) {
	start := p.pos + 2
	end := start + digits
	if end > len(p.data) {
		return 0, 0, p.fail(p.pos, "short hex escape")
	}
	v, err := strconv.ParseUint(string(p.data[start:end]), 16, 32)
	if err != nil {
		return 0, 0, p.fail(p.pos, "invalid hex escape %q", p.data[p.pos:end])
	}
	return rune(v), 2 + digits, nil
}

func (p *parser) number() (value, error) {
	start := p.pos
	if p.data[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(string(p.data[start:p.pos]))
	if err != nil {
		return value{}, p.fail(start, "invalid number %q", p.data[start:p.pos])
	}
	return value{offset: start, num: &n}, nil
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (p.pos > start && c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return string(p.data[start:p.pos])
}

func (p *parser) consumeWord(word string) bool {
	end := p.pos + len(word)
	if end > len(p.data) || string(p.data[p.pos:end]) != word {
		return false
	}
	if end < len(p.data) && !isSpace(p.data[end]) {
		return false
	}
	p.pos = end
	return true
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.data) && p.data[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) && isSpace(p.data[p.pos]) {
		p.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// table converts the parsed literal into entries:
//
//	[ [key, [name, record...], [name, record...]...], ... ]
func (p *parser) table(root value) (*Table, error) {
	if root.list == nil {
		return nil, p.fail(root.offset, "expected array, found %s", root.kind())
	}
	t := &Table{
		entries: make([]IndexEntry, 0, len(root.list)),
		byKey:   make(map[string]int, len(root.list)),
	}
	for _, item := range root.list {
		entry, err := p.entry(item)
		if err != nil {
			return nil, err
		}
		if err := t.add(entry); err != nil {
			var se *SyntaxError
			if errors.As(err, &se) {
				return nil, p.fail(item.offset, "%s", se.Msg)
			}
			return nil, err
		}
	}
	return t, nil
}

func (p *parser) entry(item value) (IndexEntry, error) {
	if item.list == nil {
		return IndexEntry{}, p.fail(item.offset, "entry must be an array, found %s", item.kind())
	}
	if len(item.list) < 2 {
		return IndexEntry{}, p.fail(item.offset, "entry has %d elements, want at least 2", len(item.list))
	}
	key := item.list[0]
	if key.str == nil {
		return IndexEntry{}, p.fail(key.offset, "entry key must be a string, found %s", key.kind())
	}
	entry := IndexEntry{Key: *key.str}
	for _, group := range item.list[1:] {
		records, err := p.group(group)
		if err != nil {
			return IndexEntry{}, err
		}
		entry.Matches = append(entry.Matches, records...)
	}
	return entry, nil
}

// group parses [name, record...].
func (p *parser) group(group value) ([]MatchRecord, error) {
	if group.list == nil {
		return nil, p.fail(group.offset, "match group must be an array, found %s", group.kind())
	}
	if len(group.list) < 2 {
		return nil, p.fail(group.offset, "match group has %d elements, want a name and at least one link", len(group.list))
	}
	name := group.list[0]
	if name.str == nil {
		return nil, p.fail(name.offset, "display name must be a string, found %s", name.kind())
	}
	records := make([]MatchRecord, 0, len(group.list)-1)
	for _, link := range group.list[1:] {
		rec, err := p.record(*name.str, link)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// record parses one link tuple. The generator writes [url, flag, label];
// [url], [url, flag], [url, label], [url, scope, signature] and
// [url, flag, scope, signature] are accepted as well.
func (p *parser) record(name string, link value) (MatchRecord, error) {
	if link.list == nil {
		return MatchRecord{}, p.fail(link.offset, "link must be an array, found %s", link.kind())
	}
	if len(link.list) == 0 || len(link.list) > 4 {
		return MatchRecord{}, p.fail(link.offset, "link has %d elements, want 1 to 4", len(link.list))
	}
	url := link.list[0]
	if url.str == nil {
		return MatchRecord{}, p.fail(url.offset, "link url must be a string, found %s", url.kind())
	}
	if *url.str == "" {
		return MatchRecord{}, p.fail(url.offset, "empty link url")
	}

	var (
		flags int
		strs  []string
	)
	for i, v := range link.list[1:] {
		switch {
		case v.num != nil && i == 0:
			flags = *v.num
		case v.str != nil && len(strs) < 2:
			strs = append(strs, *v.str)
		default:
			return MatchRecord{}, p.fail(v.offset, "unexpected %s in link", v.kind())
		}
	}

	switch len(strs) {
	case 0:
		return newMatchRecord(name, *url.str, flags, ""), nil
	case 1:
		return newMatchRecord(name, *url.str, flags, strs[0]), nil
	}
	return MatchRecord{DisplayName: name, URL: *url.str, Flags: flags, Scope: strs[0], Signature: strs[1]}, nil
}
