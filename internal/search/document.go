package search

import (
	"strings"

	"github.com/connection-matcher/backend/internal/normalizer"
)

// Record is one person row from an uploaded dataset. Raw field text is kept
// for display; the normalized counterparts computed at construction are what
// the index scores against. Records are treated as immutable once created.
type Record struct {
	ID     string
	Name   string
	Fields map[string]string // raw text by field name, e.g. "employment"

	norm map[string]string
}

// NewRecord builds a Record, normalizing every field up front so that
// indexing and scoring never touch raw text.
func NewRecord(id, name string, fields map[string]string) Record {
	norm := make(map[string]string, len(fields))
	for field, text := range fields {
		norm[field] = normalizer.Normalize(text)
	}
	return Record{
		ID:     id,
		Name:   name,
		Fields: fields,
		norm:   norm,
	}
}

// NormalizedField returns the normalized text for a field, or "" when the
// record has no such field.
func (r Record) NormalizedField(name string) string {
	return r.norm[name]
}

// documentText concatenates the named normalized fields with single spaces,
// in the given order. Missing fields contribute nothing.
func (r Record) documentText(fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, r.norm[f])
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Terms tokenizes normalized text into whitespace-delimited n-grams, from
// ngramMin up to ngramMax tokens per term. Multi-token terms join their
// tokens with a single space.
func Terms(text string, ngramMin, ngramMax int) []string {
	tokens := strings.Fields(text)
	var terms []string
	for n := ngramMin; n <= ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}
