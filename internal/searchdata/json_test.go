package searchdata_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/airsim/doxysearch/internal/searchdata"
)

func TestJSON_RoundTrip(t *testing.T) {
	table := loadSample(t)

	var buf bytes.Buffer
	if err := searchdata.EncodeJSON(&buf, table); err != nil {
		t.Fatalf("EncodeJSON() failed: %v", err)
	}

	var doc searchdata.Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("encoded document is not valid json: %v", err)
	}
	if doc.Var != searchdata.VarName {
		t.Errorf("Var = %q, want %q", doc.Var, searchdata.VarName)
	}
	if strings.Contains(buf.String(), `\u0026`) {
		t.Error("encoder escaped '&' in html entities")
	}

	back, err := searchdata.DecodeJSON(&buf)
	if err != nil {
		t.Fatalf("DecodeJSON() failed: %v", err)
	}
	if diff := cmp.Diff(table.Entries(), back.Entries()); diff != "" {
		t.Errorf("json round trip changed the table (-want +got):\n%s", diff)
	}
	if !bytes.Equal(table.Marshal(), back.Marshal()) {
		t.Error("artifact regenerated from json differs from the original")
	}
}

func TestDecodeJSON_ExplicitScopeSurvivesArtifact(t *testing.T) {
	input := `{"entries":[{"key":"testfoo","matches":[
		{"display_name":"testFoo","url":"t.html#x","flags":1,"scope":"AirplaneDomainTests","signature":"testFoo()"},
		{"display_name":"testFoo","url":"a.html#y","flags":1,"scope":"Airplane","signature":"fuel"}]}]}`

	imported, err := searchdata.DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() failed: %v", err)
	}
	reloaded, err := searchdata.Parse(imported.Marshal())
	if err != nil {
		t.Fatalf("generated artifact does not parse: %v", err)
	}
	if diff := cmp.Diff(imported.Entries(), reloaded.Entries()); diff != "" {
		t.Errorf("artifact lost record fields (-imported +reloaded):\n%s", diff)
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"not json", `{"entries": [`, "invalid json"},
		{"missing entries", `{"var": "searchData"}`, "schema violation"},
		{"wrong var", `{"var": "other", "entries": []}`, "schema violation"},
		{"uppercase key", `{"entries": [{"key": "Air", "matches": [{"display_name": "Air", "url": "a.html"}]}]}`, "schema violation"},
		{"no matches", `{"entries": [{"key": "air", "matches": []}]}`, "schema violation"},
		{"empty url", `{"entries": [{"key": "air", "matches": [{"display_name": "Air", "url": ""}]}]}`, "schema violation"},
		{"unknown field", `{"entries": [], "extra": true}`, "schema violation"},
		{"string flags", `{"entries": [{"key": "air", "matches": [{"display_name": "Air", "url": "a.html", "flags": "1"}]}]}`, "schema violation"},
		{"duplicate key", `{"entries": [
			{"key": "air", "matches": [{"display_name": "Air", "url": "a.html"}]},
			{"key": "air", "matches": [{"display_name": "Air", "url": "b.html"}]}
		]}`, "duplicate key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := searchdata.DecodeJSON(strings.NewReader(tt.input))
			if !errors.Is(err, searchdata.ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
			if strings.Contains(err.Error(), "\n") {
				t.Errorf("error spans multiple lines: %q", err)
			}
		})
	}
}

func TestDecodeJSON_Minimal(t *testing.T) {
	table, err := searchdata.DecodeJSON(strings.NewReader(
		`{"entries": [{"key": "runway", "matches": [{"display_name": "Runway", "url": "classRunway.html", "flags": 1}]}]}`))
	if err != nil {
		t.Fatalf("DecodeJSON() failed: %v", err)
	}
	want := "var searchData=\n[\n  ['runway',['Runway',['classRunway.html',1,'']]]\n];\n"
	if got := string(table.Marshal()); got != want {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}
