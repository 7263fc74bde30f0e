// Package rerank scores retrieved passages against the query with a
// cross-encoder, improving precision over raw vector similarity.
package rerank

import "context"

// Result is one reranked document. Index points back into the candidate
// slice that was passed to Rerank.
type Result struct {
	Index int
	Score float64
}

// Reranker orders candidate documents by relevance to a query, keeping
// at most topN of them.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error)
}
