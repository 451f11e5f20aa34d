package search

import (
	"math"
	"sort"
)

// TFIDFVectorizer implements Term Frequency - Inverse Document Frequency
// over whitespace-delimited n-grams. The vocabulary is frozen by Fit;
// Transform only ever reads it, so a fitted vectorizer is safe for
// concurrent use.
type TFIDFVectorizer struct {
	// Vocabulary maps a term to its column index. The only name-keyed
	// lookup in the index; everything downstream is addressed by column.
	Vocabulary map[string]int

	// IDF holds the inverse document frequency per column.
	IDF []float64

	NgramMin int
	NgramMax int
	MaxTerms int
}

// NewTFIDFVectorizer creates an unfitted vectorizer for the given n-gram
// range and vocabulary cap.
func NewTFIDFVectorizer(ngramMin, ngramMax, maxTerms int) *TFIDFVectorizer {
	return &TFIDFVectorizer{
		Vocabulary: make(map[string]int),
		NgramMin:   ngramMin,
		NgramMax:   ngramMax,
		MaxTerms:   maxTerms,
	}
}

// Fit builds the vocabulary and IDF statistics from the corpus documents.
// The result is a pure function of the input: when distinct terms exceed
// MaxTerms, the terms with the highest aggregate corpus-wide frequency are
// retained (ties broken by ascending lexical order), and columns are
// assigned in lexical order of the retained terms.
func (v *TFIDFVectorizer) Fit(docs []string) {
	totalCounts := make(map[string]int)
	docCounts := make(map[string]int)

	for _, doc := range docs {
		seenInDoc := make(map[string]bool)
		for _, term := range Terms(doc, v.NgramMin, v.NgramMax) {
			totalCounts[term]++
			if !seenInDoc[term] {
				docCounts[term]++
				seenInDoc[term] = true
			}
		}
	}

	retained := make([]string, 0, len(totalCounts))
	for term := range totalCounts {
		retained = append(retained, term)
	}

	if v.MaxTerms > 0 && len(retained) > v.MaxTerms {
		sort.Slice(retained, func(i, j int) bool {
			if totalCounts[retained[i]] != totalCounts[retained[j]] {
				return totalCounts[retained[i]] > totalCounts[retained[j]]
			}
			return retained[i] < retained[j]
		})
		retained = retained[:v.MaxTerms]
	}
	sort.Strings(retained)

	v.Vocabulary = make(map[string]int, len(retained))
	v.IDF = make([]float64, len(retained))

	// Smoothed IDF: ln((1+N)/(1+df)) + 1. Strictly positive and finite,
	// monotonically decreasing in document frequency, so a term in every
	// document still carries a small weight while a singleton term carries
	// the largest.
	n := float64(len(docs))
	for col, term := range retained {
		v.Vocabulary[term] = col
		v.IDF[col] = math.Log((1+n)/(1+float64(docCounts[term]))) + 1
	}
}

// Transform converts text into a dense term-weight vector over the frozen
// vocabulary. Each entry is raw term count times IDF; terms outside the
// vocabulary contribute nothing, and absent terms are exactly zero.
func (v *TFIDFVectorizer) Transform(text string) []float64 {
	vector := make([]float64, len(v.Vocabulary))
	for _, term := range Terms(text, v.NgramMin, v.NgramMax) {
		if col, ok := v.Vocabulary[term]; ok {
			vector[col] += v.IDF[col]
		}
	}
	return vector
}
