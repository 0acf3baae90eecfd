package searchdata

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// WriteTo writes the table in the generator's layout:
//
//	var searchData=
//	[
//	  ['key',['Name',['url',1,'label'],...]],
//	  ...
//	];
//
// Output for a table loaded from a generated file is byte-identical to it.
// A record whose scope cannot be rebuilt from its text is written as
// ['url',flag,'scope','signature'].
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	bw.WriteString("var " + VarName + "=\n[\n")
	for i, e := range t.Entries() {
		if i > 0 {
			bw.WriteString(",\n")
		}
		bw.WriteString("  [")
		writeQuoted(bw, e.Key)
		for _, group := range groups(e.Matches) {
			bw.WriteString(",[")
			writeQuoted(bw, group[0].DisplayName)
			for _, m := range group {
				bw.WriteString(",[")
				writeQuoted(bw, m.URL)
				bw.WriteByte(',')
				bw.WriteString(strconv.Itoa(m.Flags))
				bw.WriteByte(',')
				if m.derivable() {
					writeQuoted(bw, m.Text())
				} else {
					writeQuoted(bw, m.Scope)
					bw.WriteByte(',')
					writeQuoted(bw, m.Signature)
				}
				bw.WriteByte(']')
			}
			bw.WriteByte(']')
		}
		bw.WriteByte(']')
	}
	if t.Len() > 0 {
		bw.WriteByte('\n')
	}
	bw.WriteString("];\n")

	err := bw.Flush()
	return cw.n, err
}

// Marshal returns the table in the generator's layout.
func (t *Table) Marshal() []byte {
	var buf bytes.Buffer
	t.WriteTo(&buf)
	return buf.Bytes()
}

// groups splits records into runs sharing a display name.
func groups(matches []MatchRecord) [][]MatchRecord {
	var out [][]MatchRecord
	for i := 0; i < len(matches); {
		j := i + 1
		for j < len(matches) && matches[j].DisplayName == matches[i].DisplayName {
			j++
		}
		out = append(out, matches[i:j])
		i = j
	}
	return out
}

func writeQuoted(w *bufio.Writer, s string) {
	w.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '\\':
			w.WriteByte('\\')
			w.WriteByte(c)
		case '\n':
			w.WriteString(`\n`)
		case '\r':
			w.WriteString(`\r`)
		case '\t':
			w.WriteString(`\t`)
		default:
			w.WriteByte(c)
		}
	}
	w.WriteByte('\'')
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
