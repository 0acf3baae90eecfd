package searchdata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://doxysearch.local/schema/searchdata.json"

// Document is the JSON interchange form of a table.
type Document struct {
	Var     string       `json:"var,omitempty"`
	Entries []IndexEntry `json:"entries"`
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema: %w", err)
	}
	return compiler.Compile(schemaURL)
})

// EncodeJSON writes t as an indented JSON document.
func EncodeJSON(w io.Writer, t *Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(Document{Var: VarName, Entries: t.Entries()})
}

// DecodeJSON reads a JSON document, validates it against the embedded schema
// and builds a table from it. Schema violations and invariant failures are
// malformed-artifact errors.
func DecodeJSON(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read json document: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, malformed(-1, "invalid json: %v", err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, malformed(-1, "schema violation: %s", oneLine(err.Error()))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed(-1, "invalid json: %v", err)
	}
	return NewTable(doc.Entries)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " | ")), " ")
}
