// Package symbols builds and queries a bleve full-text index over the match
// records of a search table.
package symbols

import (
	"html"
	"strconv"

	"github.com/airsim/doxysearch/internal/searchdata"
)

// Documents converts every match record of table into an index document,
// in table order.
func Documents(table *searchdata.Table) []SymbolDoc {
	docs := make([]SymbolDoc, 0, table.MatchCount())
	for _, e := range table.Entries() {
		for i, m := range e.Matches {
			docs = append(docs, newSymbolDoc(e.Key, i, m))
		}
	}
	return docs
}

func newSymbolDoc(key string, ordinal int, m searchdata.MatchRecord) SymbolDoc {
	doc := SymbolDoc{
		ID:    key + "#" + strconv.Itoa(ordinal),
		Key:   key,
		Name:  html.UnescapeString(m.DisplayName),
		Kind:  KindPage,
		Scope: html.UnescapeString(m.Scope),
		URL:   m.URL,
	}
	if m.IsMember() {
		doc.Kind = KindMember
		doc.Signature = html.UnescapeString(m.Signature)
		doc.Params = ParseParams(doc.Signature)
	}
	doc.Keywords = ExtractKeywords(doc.Name, doc.Scope, doc.Params)
	return doc
}
