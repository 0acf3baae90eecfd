package symbols_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/airsim/doxysearch/internal/searchdata"
	"github.com/airsim/doxysearch/internal/symbols"
)

const sampleFile = "../searchdata/testdata/all_0.js"

func sampleDocs(t *testing.T) []symbols.SymbolDoc {
	t.Helper()
	table, err := searchdata.LoadFile(sampleFile)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	return symbols.Documents(table)
}

func TestSplitIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Airplane", []string{"Airplane"}},
		{"AirplaneDomainTests", []string{"Airplane", "Domain", "Tests"}},
		{"AirplaneEnums::EStatus", []string{"Airplane", "Enums", "E", "Status"}},
		{"_fuelCapacity", []string{"fuel", "Capacity"}},
		{"const std::string &_number", []string{"const", "std", "string", "number"}},
		{"HTTPServer2Go", []string{"HTTP", "Server2", "Go"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, symbols.SplitIdentifier(tt.input)); diff != "" {
				t.Errorf("SplitIdentifier(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		expected  []string
	}{
		{"no parens", "Airplane", nil},
		{"empty list", "Airport::close()", nil},
		{"void", "Airport::close(void)", nil},
		{"single", "Airplane::Airplane(const Airplane *_airplane)", []string{"const Airplane *_airplane"}},
		{"two", "Runway::Runway(const std::string &_name, Airport *_airport)", []string{"const std::string &_name", "Airport *_airport"}},
		{"template comma", "f(std::map<int, int> m, int n)", []string{"std::map<int, int> m", "int n"}},
		{"function pointer", "g(void (*cb)(int, int), int n) const", []string{"void (*cb)(int, int)", "int n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, symbols.ParseParams(tt.signature)); diff != "" {
				t.Errorf("ParseParams(%q) mismatch (-want +got):\n%s", tt.signature, diff)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		symbol   string
		scope    string
		params   []string
		expected []string
	}{
		{
			name:     "compound class name",
			symbol:   "AirplaneDomainTests",
			expected: []string{"airplanedomaintests", "airplane", "domain", "tests"},
		},
		{
			name:     "copy constructor",
			symbol:   "Airplane",
			scope:    "Airplane",
			params:   []string{"const Airplane *_airplane"},
			expected: []string{"airplane"},
		},
		{
			name:     "stop words and short words dropped",
			symbol:   "Go",
			params:   []string{"unsigned int _id", "const std::string &_callsign"},
			expected: []string{"callsign"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := symbols.ExtractKeywords(tt.symbol, tt.scope, tt.params)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ExtractKeywords() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractKeywords_Capped(t *testing.T) {
	params := strings.Fields("alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima")
	got := symbols.ExtractKeywords("Symbol", "", params)
	if len(got) != symbols.MaxKeywords {
		t.Errorf("got %d keywords, want %d", len(got), symbols.MaxKeywords)
	}
}

func TestDocuments(t *testing.T) {
	docs := sampleDocs(t)
	if len(docs) != 8 {
		t.Fatalf("got %d documents, want 8", len(docs))
	}

	page := docs[0]
	if page.ID != "airplane#0" || page.Kind != symbols.KindPage || page.Scope != "Airplane" {
		t.Errorf("unexpected page document: %+v", page)
	}

	ctor := docs[1]
	if ctor.ID != "airplane#1" || ctor.Kind != symbols.KindMember {
		t.Errorf("unexpected member document: %+v", ctor)
	}
	if !strings.Contains(ctor.Signature, "const std::string &_number") {
		t.Errorf("signature should be entity-decoded, got %q", ctor.Signature)
	}
	if len(ctor.Params) != 13 {
		t.Errorf("got %d params, want 13", len(ctor.Params))
	}
	if ctor.Scope != "Airplane" {
		t.Errorf("Scope = %q, want %q", ctor.Scope, "Airplane")
	}

	ids := make(map[string]bool)
	for _, d := range docs {
		if ids[d.ID] {
			t.Errorf("duplicate document id %q", d.ID)
		}
		ids[d.ID] = true
	}
}

func TestDocuments_KindFromAnchor(t *testing.T) {
	table, err := searchdata.Parse([]byte(`[['runway',['Runway',['../classsim_1_1Runway.html',1,'sim::Runway'],['../classsim_1_1Runway.html#a1',1,'sim::Runway::length']]]]`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	docs := symbols.Documents(table)
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}

	if docs[0].Kind != symbols.KindPage || docs[0].Scope != "sim::Runway" || docs[0].Signature != "" {
		t.Errorf("namespaced class should be a page: %+v", docs[0])
	}
	if docs[1].Kind != symbols.KindMember || docs[1].Scope != "sim::Runway" || docs[1].Signature != "sim::Runway::length" {
		t.Errorf("anchored record should be a member: %+v", docs[1])
	}

	index, err := symbols.NewMemIndex(docs)
	if err != nil {
		t.Fatalf("NewMemIndex() failed: %v", err)
	}
	defer index.Close()

	res, err := symbols.Search(index, symbols.Query{Text: "runway", Kind: symbols.KindPage, Limit: 10})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(res.Hits) != 1 || res.Hits[0].Doc.ID != "runway#0" {
		t.Errorf("kind=page search should return the class page, got %+v", res.Hits)
	}
}

func TestSearch(t *testing.T) {
	index, err := symbols.NewMemIndex(sampleDocs(t))
	if err != nil {
		t.Fatalf("NewMemIndex() failed: %v", err)
	}
	defer index.Close()

	tests := []struct {
		name    string
		query   symbols.Query
		wantIDs []string // order-independent
	}{
		{
			name:    "keyword from compound name",
			query:   symbols.Query{Text: "domain"},
			wantIDs: []string{"airplanedomaintests#0", "airportdomaintests#0"},
		},
		{
			name:    "parameter name",
			query:   symbols.Query{Text: "squawk"},
			wantIDs: []string{"airplane#1"},
		},
		{
			name:    "kind filter",
			query:   symbols.Query{Text: "airplane", Kind: symbols.KindMember},
			wantIDs: []string{"airplane#1", "airplane#2"},
		},
		{
			name:    "prefix fallback",
			query:   symbols.Query{Text: "AirpO", Limit: 20},
			wantIDs: []string{"airport#0", "airport#1", "airport#2", "airportdomaintests#0"},
		},
		{
			name:    "no match",
			query:   symbols.Query{Text: "helicopter"},
			wantIDs: []string{},
		},
		{
			name:    "empty query",
			query:   symbols.Query{Text: "   "},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := symbols.Search(index, tt.query)
			if err != nil {
				t.Fatalf("Search() failed: %v", err)
			}
			got := make(map[string]bool)
			for _, h := range res.Hits {
				got[h.Doc.ID] = true
			}
			want := make(map[string]bool)
			for _, id := range tt.wantIDs {
				want[id] = true
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("hit ids mismatch (-want +got):\n%s", diff)
			}
			if int(res.Total) != len(tt.wantIDs) {
				t.Errorf("Total = %d, want %d", res.Total, len(tt.wantIDs))
			}
		})
	}
}

func TestSearch_StoredFields(t *testing.T) {
	docs := sampleDocs(t)
	index, err := symbols.NewMemIndex(docs)
	if err != nil {
		t.Fatalf("NewMemIndex() failed: %v", err)
	}
	defer index.Close()

	res, err := symbols.Search(index, symbols.Query{Text: "squawk"})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(res.Hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(res.Hits))
	}
	if diff := cmp.Diff(docs[1], res.Hits[0].Doc); diff != "" {
		t.Errorf("stored document mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildAndOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	docs := sampleDocs(t)

	if err := symbols.Build(dir, docs); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if _, err := os.Stat(dir + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp index left behind: %v", err)
	}

	index, err := symbols.Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	count, err := index.DocCount()
	if err != nil {
		t.Fatalf("DocCount() failed: %v", err)
	}
	if count != uint64(len(docs)) {
		t.Errorf("DocCount() = %d, want %d", count, len(docs))
	}
	index.Close()

	// rebuilding replaces the previous index
	if err := symbols.Build(dir, docs[:2]); err != nil {
		t.Fatalf("second Build() failed: %v", err)
	}
	index, err = symbols.Open(dir)
	if err != nil {
		t.Fatalf("Open() after rebuild failed: %v", err)
	}
	defer index.Close()
	if count, _ := index.DocCount(); count != 2 {
		t.Errorf("DocCount() after rebuild = %d, want 2", count)
	}
}

func TestOpen_StaleVersion(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "index")
	if err := symbols.Build(dir, sampleDocs(t)); err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, symbols.VersionFile), []byte("0"), 0644); err != nil {
		t.Fatalf("Failed to overwrite version file: %v", err)
	}

	_, err := symbols.Open(dir)
	if !errors.Is(err, symbols.ErrStaleIndex) {
		t.Errorf("expected ErrStaleIndex, got %v", err)
	}
}
