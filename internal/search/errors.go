package search

import "errors"

var (
	// ErrEmptyQuery is returned when a query is empty or whitespace-only.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrInvalidTopK is returned when top_k is less than 1.
	ErrInvalidTopK = errors.New("top_k must be a positive integer")

	// ErrInvalidMinScore is returned when min_score is outside [0, 1].
	ErrInvalidMinScore = errors.New("min_score must be between 0.0 and 1.0")

	// ErrInvalidNgramRange is returned when the n-gram range is not 1 <= min <= max.
	ErrInvalidNgramRange = errors.New("ngram range must satisfy 1 <= min <= max")

	// ErrInvalidMaxTerms is returned when the vocabulary cap is less than 1.
	ErrInvalidMaxTerms = errors.New("max vocabulary size must be a positive integer")
)
