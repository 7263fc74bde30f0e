package vectorstore

import "context"

// Metadata is the per-record payload stored next to each vector.
type Metadata struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// Record is one stored vector with its id and payload. Ids are globally
// unique within the collection.
type Record struct {
	ID       string    `json:"id"`
	Values   []float32 `json:"values"`
	Metadata Metadata  `json:"metadata"`
}

// Match is a query hit with its similarity score.
type Match struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata"`
}

// Store is the hosted similarity index consumed as a black box.
type Store interface {
	Upsert(ctx context.Context, records []Record) error
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
	// DeleteAll wipes the collection. Deleting an already-empty
	// collection is not an error.
	DeleteAll(ctx context.Context) error
}
