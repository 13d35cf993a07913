package vectorstore

import "time"

// Well-known metadata keys. The metadata map is open-ended, but these keys
// drive filtering and enrichment.
const (
	MetaStudyType       = "study_type"
	MetaYear            = "year"
	MetaContentType     = "content_type"
	MetaClient          = "client"
	MetaDocumentName    = "document_name"
	MetaSectionType     = "section_type"
	MetaConfidenceScore = "confidence_score"
)

// DocumentChunk is a unit of retrievable text with its embedding and metadata.
// Content and embedding are immutable after creation; chunks exist only inside
// a Store.
type DocumentChunk struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Embedding []float64 `json:"embedding"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// RankedResult pairs a chunk with its similarity score for one query. It is
// produced fresh by every search and never stored.
type RankedResult struct {
	Chunk *DocumentChunk `json:"chunk"`
	Score float64        `json:"score"`
}

// Metadata maps string keys to scalar values (string, number, bool) or lists
// of scalars. Access goes through the typed helpers below rather than type
// assertions scattered around call sites.
type Metadata map[string]any

// StringValue returns the value under key if it is a string.
func (m Metadata) StringValue(key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// NumberValue returns the value under key coerced to float64. Integers and
// floats both qualify; JSON round-trips turn ints into float64 so callers must
// not rely on the concrete numeric type.
func (m Metadata) NumberValue(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return asNumber(v)
}

// ListValue returns the value under key if it is a list of scalars.
func (m Metadata) ListValue(key string) ([]any, bool) {
	switch v := m[key].(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns a shallow copy. Enrichment works on a clone so the caller's
// map is never mutated.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
