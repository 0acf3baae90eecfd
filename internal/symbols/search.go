package symbols

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Searcher is the part of bleve.Index that Search needs.
type Searcher interface {
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)
}

// Query describes a full-text symbol search.
type Query struct {
	Text  string
	Kind  string // KindPage, KindMember, or empty for both
	Limit int
}

// Result holds the converted hits and the total hit count.
type Result struct {
	Hits  []Hit
	Total uint64
}

// Search runs a match query over the symbol documents. When the match query
// finds nothing, it retries as a prefix query on the symbol name so partial
// identifiers ("airp") still find something.
func Search(index Searcher, q Query) (*Result, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return &Result{Hits: []Hit{}}, nil
	}

	res, err := run(index, bleve.NewMatchQuery(text), q)
	if err != nil {
		return nil, err
	}
	if res.Total == 0 && !strings.ContainsAny(text, " \t") {
		prefix := bleve.NewPrefixQuery(strings.ToLower(text))
		prefix.SetField("name")
		if res, err = run(index, prefix, q); err != nil {
			return nil, err
		}
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{Doc: docFromFields(h.ID, h.Fields), Score: h.Score})
	}
	return &Result{Hits: hits, Total: res.Total}, nil
}

func run(index Searcher, main query.Query, q Query) (*bleve.SearchResult, error) {
	if q.Kind != "" {
		kind := bleve.NewTermQuery(q.Kind)
		kind.SetField("kind")
		main = bleve.NewConjunctionQuery(main, kind)
	}
	req := bleve.NewSearchRequest(main)
	if q.Limit > 0 {
		req.Size = q.Limit
	}
	req.Fields = []string{"*"}

	res, err := index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return res, nil
}

func docFromFields(id string, fields map[string]interface{}) SymbolDoc {
	doc := SymbolDoc{ID: id}
	doc.Key, _ = fields["key"].(string)
	doc.Name, _ = fields["name"].(string)
	doc.Kind, _ = fields["kind"].(string)
	doc.Scope, _ = fields["scope"].(string)
	doc.Signature, _ = fields["signature"].(string)
	doc.URL, _ = fields["url"].(string)
	doc.Params = stringsField(fields["params"])
	doc.Keywords = stringsField(fields["keywords"])
	return doc
}

// stringsField reads a stored array field. bleve returns a single-element
// array as a plain string.
func stringsField(v interface{}) []string {
	switch v := v.(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
