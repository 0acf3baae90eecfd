package symbols

// Document kinds
const (
	KindPage   = "page"
	KindMember = "member"
)

const (
	// BatchSize is the number of documents submitted per bleve batch
	BatchSize = 100

	// MaxKeywords caps the keywords stored per document
	MaxKeywords = 10

	// VersionFile sits next to the index directory and records its schema
	VersionFile = ".index_version"

	// IndexSchemaVersion increments when the document layout or mapping changes
	// v1: one document per match record, camel-case keywords
	IndexSchemaVersion = 1
)
