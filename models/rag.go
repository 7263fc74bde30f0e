package models

// Chunk is one bounded slice of ingested text. One chunk maps to exactly
// one stored vector; chunks are immutable once upserted and removed only
// by a collection-wide reset.
type Chunk struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

type IngestRequest struct {
	Text string `json:"text" binding:"required"`
}

// ChunkFailure records a chunk that was dropped during ingestion and why.
type ChunkFailure struct {
	Chunk  int    `json:"chunk"`
	Reason string `json:"reason"`
}

type IngestResponse struct {
	Status   string         `json:"status"`
	Chunks   int            `json:"chunks"`
	Indexed  int            `json:"indexed"`
	Failures []ChunkFailure `json:"failures,omitempty"`
}

type ChatRequest struct {
	Question string `json:"question" binding:"required"`
}

// Citation points at one context passage used for an answer. Numbering is
// 1-based and local to a single response.
type Citation struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type ChatResponse struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	TimeTaken float64    `json:"time_taken"`
}
