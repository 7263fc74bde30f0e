package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rag-demo-service/internal/ai"
	"rag-demo-service/internal/config"
	"rag-demo-service/internal/logger"
	"rag-demo-service/internal/vectorstore"
	"rag-demo-service/models"
)

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string, task ai.EmbedTask) ([]float32, error)
}

const chunkSource = "user-upload"

// IngestionService splits raw text, embeds each chunk and upserts the
// vectors in batches. Chunk processing is strictly sequential; pacing
// against the embedding provider lives in the Gemini client's limiter.
type IngestionService struct {
	splitter     *Splitter
	embedder     Embedder
	store        vectorstore.Store
	maxRetries   int
	retryBackoff time.Duration
	batchSize    int
}

func NewIngestionService(splitter *Splitter, embedder Embedder, store vectorstore.Store, cfg *config.Config) *IngestionService {
	maxRetries := cfg.EmbedMaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	batchSize := cfg.UpsertBatchSize
	if batchSize < 1 {
		batchSize = 50
	}
	return &IngestionService{
		splitter:     splitter,
		embedder:     embedder,
		store:        store,
		maxRetries:   maxRetries,
		retryBackoff: time.Duration(cfg.EmbedRetryBackoff) * time.Second,
		batchSize:    batchSize,
	}
}

// IngestResult reports per-chunk outcomes: how many chunks the text
// produced, how many actually made it into the index, and why the rest
// were dropped.
type IngestResult struct {
	Chunks   int
	Indexed  int
	Failures []models.ChunkFailure
}

// Ingest runs the full pipeline for one piece of text. Chunks whose
// embedding keeps failing are dropped and reported in Failures; an
// upsert failure aborts the whole request.
func (s *IngestionService) Ingest(ctx context.Context, text string) (*IngestResult, error) {
	chunks := s.splitter.Split(text)
	result := &IngestResult{Chunks: len(chunks)}

	logger.Info("Starting ingestion", "chunks", len(chunks))

	var records []vectorstore.Record
	for i, chunkText := range chunks {
		vector, err := s.embedChunk(ctx, chunkText)
		if err != nil {
			logger.Warn("Dropping chunk after embedding failure", "chunk", i, "error", err)
			result.Failures = append(result.Failures, models.ChunkFailure{Chunk: i, Reason: err.Error()})
			continue
		}
		records = append(records, vectorstore.Record{
			ID:     uuid.NewString(),
			Values: vector,
			Metadata: vectorstore.Metadata{
				Text:   chunkText,
				Source: chunkSource,
			},
		})
	}

	for start := 0; start < len(records); start += s.batchSize {
		end := start + s.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := s.store.Upsert(ctx, records[start:end]); err != nil {
			return nil, err
		}
		result.Indexed = end
	}

	logger.Info("Ingestion finished", "chunks", result.Chunks, "indexed", result.Indexed, "failed", len(result.Failures))
	return result, nil
}

// embedChunk retries rate-limited embeddings up to maxRetries attempts,
// sleeping between tries. Any other error is permanent and drops the
// chunk.
func (s *IngestionService) embedChunk(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		vector, err := s.embedder.EmbedText(ctx, text, ai.TaskDocument)
		if err == nil {
			return vector, nil
		}
		lastErr = err
		if !ai.IsRateLimited(err) {
			return nil, err
		}
		if attempt < s.maxRetries-1 {
			logger.Warn("Embedding rate limited, backing off", "backoff", s.retryBackoff.String())
			select {
			case <-time.After(s.retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}
