package symbols

// SymbolDoc represents one match record in the full-text symbol index
type SymbolDoc struct {
	ID        string   `json:"id"`                  // key#ordinal
	Key       string   `json:"key"`                 // encoded search key ("airplane")
	Name      string   `json:"name"`                // display name ("Airplane")
	Kind      string   `json:"kind"`                // KindPage or KindMember
	Scope     string   `json:"scope,omitempty"`     // enclosing class or namespace
	Signature string   `json:"signature,omitempty"` // entity-decoded member text
	Params    []string `json:"params,omitempty"`    // parameter declarations from the signature
	URL       string   `json:"url"`
	Keywords  []string `json:"keywords,omitempty"` // Key terms extracted from name, scope and params
}

// Hit is a search result with score
type Hit struct {
	Doc   SymbolDoc `json:"doc"`
	Score float64   `json:"score"`
}
