package search

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/connection-matcher/backend/internal/normalizer"
)

// Options controls how an Index is fitted.
type Options struct {
	NgramMin int // smallest n-gram, default 1
	NgramMax int // largest n-gram, default 2
	MaxTerms int // vocabulary cap, default 10000
}

// DefaultOptions returns the fitting defaults: unigrams and bigrams with a
// 10000-term vocabulary.
func DefaultOptions() Options {
	return Options{NgramMin: 1, NgramMax: 2, MaxTerms: 10000}
}

// ScoredResult is one ranked match: a record, its min-max normalized score
// in [0, 1], and its 1-based rank.
type ScoredResult struct {
	Record Record
	Score  float64
	Rank   int
}

// Index is a frozen term-weighted view of one corpus. It is built once by
// Fit and never mutated afterward, so any number of callers may Score and
// Rank against it concurrently.
type Index struct {
	records    []Record
	fields     []string
	vectors    [][]float64
	vectorizer *TFIDFVectorizer
}

// Fit builds an Index over the records, scoring against the named
// normalized fields in order. A zero-record corpus is legal: the resulting
// Index answers every query with an empty result set.
func Fit(records []Record, fields []string, opts Options) (*Index, error) {
	if opts.NgramMin < 1 || opts.NgramMax < opts.NgramMin {
		return nil, ErrInvalidNgramRange
	}
	if opts.MaxTerms < 1 {
		return nil, ErrInvalidMaxTerms
	}

	docs := make([]string, len(records))
	for i, r := range records {
		docs[i] = r.documentText(fields)
	}

	vectorizer := NewTFIDFVectorizer(opts.NgramMin, opts.NgramMax, opts.MaxTerms)
	vectorizer.Fit(docs)

	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = vectorizer.Transform(doc)
	}

	return &Index{
		records:    records,
		fields:     fields,
		vectors:    vectors,
		vectorizer: vectorizer,
	}, nil
}

// Size returns the number of records in the corpus.
func (ix *Index) Size() int {
	return len(ix.records)
}

// Records returns the corpus in its original order.
func (ix *Index) Records() []Record {
	return ix.records
}

// Score normalizes and vectorizes the query against the frozen vocabulary,
// then returns the raw cosine similarity against every record, in corpus
// order. Query terms outside the vocabulary contribute nothing.
func (ix *Index) Score(query string) []float64 {
	queryVector := ix.vectorizer.Transform(normalizer.Normalize(query))

	scores := make([]float64, len(ix.vectors))
	for i, docVector := range ix.vectors {
		scores[i] = CosineSimilarity(queryVector, docVector)
	}
	return scores
}

// Rank scores the query, min-max normalizes, keeps records at or above
// minScore, and returns at most topK results sorted by descending score
// with ties broken by ascending corpus order. An empty result is a normal
// outcome, not an error.
func (ix *Index) Rank(query string, topK int, minScore float64) ([]ScoredResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK < 1 {
		return nil, ErrInvalidTopK
	}
	if minScore < 0 || minScore > 1 {
		return nil, ErrInvalidMinScore
	}

	scores := NormalizeScores(ix.Score(query))

	kept := make([]int, 0, len(scores))
	for i, score := range scores {
		if score >= minScore {
			kept = append(kept, i)
		}
	}

	sort.Slice(kept, func(a, b int) bool {
		if scores[kept[a]] != scores[kept[b]] {
			return scores[kept[a]] > scores[kept[b]]
		}
		return kept[a] < kept[b]
	})

	if len(kept) > topK {
		kept = kept[:topK]
	}

	results := make([]ScoredResult, len(kept))
	for rank, i := range kept {
		results[rank] = ScoredResult{
			Record: ix.records[i],
			Score:  scores[i],
			Rank:   rank + 1,
		}
	}
	return results, nil
}

// NormalizeScores min-max rescales raw scores into [0, 1] for one query.
// When every raw score is equal, the result is all ones if the common value
// is positive and all zeros otherwise, so an all-irrelevant corpus never
// looks fully relevant. An empty input returns an empty output.
func NormalizeScores(scores []float64) []float64 {
	if len(scores) == 0 {
		return []float64{}
	}

	minVal, maxVal := scores[0], scores[0]
	for _, s := range scores[1:] {
		minVal = math.Min(minVal, s)
		maxVal = math.Max(maxVal, s)
	}

	normalized := make([]float64, len(scores))
	if maxVal == minVal {
		if maxVal > 0 {
			for i := range normalized {
				normalized[i] = 1
			}
		}
		return normalized
	}

	for i, s := range scores {
		normalized[i] = (s - minVal) / (maxVal - minVal)
	}
	return normalized
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// An all-zero vector on either side yields 0 rather than a division error.
// The vectors must share a dimensionality; a mismatch means two different
// vocabularies were mixed and cannot be recovered from.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("search: vector dimension mismatch: %d vs %d", len(a), len(b)))
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
